package assistant

import (
	"fmt"
	"strings"

	"github.com/frahmantamala/travel-booking/internal/flight"
)

type phrases struct {
	unknown       string
	flightTo      string
	flightNoPlace string
	hotel         string
	hotelNoPlace  string
	train         string
	trainNoPlace  string
	onDate        string
	cheapest      string
	nearest       string
	noFlights     string
}

var replies = map[Language]phrases{
	LangEnglish: {
		unknown:       `I can look for flights, hotels and trains. Try "flight to Sochi tomorrow for 2 people".`,
		flightTo:      "Looking for flights to %s%s for %s.",
		flightNoPlace: `Where would you like to fly? Name a city, for example "flight to Kazan next week".`,
		hotel:         "Noted a hotel in %s%s for %s. Add it to a basket trip to send it for approval.",
		hotelNoPlace:  "Which city do you need a hotel in?",
		train:         "Noted a train trip to %s%s for %s. Add it to a basket trip with the fare you were quoted.",
		trainNoPlace:  "Where are you going by train?",
		onDate:        " on %s",
		cheapest:      "Cheapest options:",
		nearest:       "Nothing on that day. Nearest options:",
		noFlights:     "No flights to %s in the catalogue.",
	},
	LangRussian: {
		unknown:       `Я могу подобрать авиабилеты, отели и поезда. Например: "билет в Сочи на завтра на 2 человек".`,
		flightTo:      "Ищу рейсы: %s%s, %s.",
		flightNoPlace: `Куда летим? Назовите город, например "рейс в Казань через неделю".`,
		hotel:         "Записал отель: %s%s, %s. Добавьте его в корзину поездки для согласования.",
		hotelNoPlace:  "В каком городе нужен отель?",
		train:         "Записал поездку на поезде: %s%s, %s. Добавьте её в корзину поездки с полученным тарифом.",
		trainNoPlace:  "Куда едем на поезде?",
		onDate:        ", %s",
		cheapest:      "Самые дешевые варианты:",
		nearest:       "На этот день рейсов нет. Ближайшие варианты:",
		noFlights:     "Рейсов в %s в каталоге нет.",
	},
}

func passengersText(lang Language, n int) string {
	if lang == LangRussian {
		switch {
		case n%10 == 1 && n%100 != 11:
			return fmt.Sprintf("%d пассажир", n)
		case n%10 >= 2 && n%10 <= 4 && (n%100 < 10 || n%100 >= 20):
			return fmt.Sprintf("%d пассажира", n)
		default:
			return fmt.Sprintf("%d пассажиров", n)
		}
	}
	if n == 1 {
		return "1 passenger"
	}
	return fmt.Sprintf("%d passengers", n)
}

// Reply is the canned answer for an intent, without any catalogue lookup.
func Reply(in Intent) string {
	p := replies[in.Language]
	if p.unknown == "" {
		p = replies[LangEnglish]
	}

	when := ""
	if in.Date != "" {
		when = fmt.Sprintf(p.onDate, in.Date)
	}
	who := passengersText(in.Language, in.Passengers)

	switch in.Kind {
	case KindFlight:
		if in.Destination == "" {
			return p.flightNoPlace
		}
		return fmt.Sprintf(p.flightTo, in.Destination, when, who)
	case KindHotel:
		if in.Destination == "" {
			return p.hotelNoPlace
		}
		return fmt.Sprintf(p.hotel, in.Destination, when, who)
	case KindTrain:
		if in.Destination == "" {
			return p.trainNoPlace
		}
		return fmt.Sprintf(p.train, in.Destination, when, who)
	}
	return p.unknown
}

// flightLines renders the offers appended to a flight reply.
func flightLines(in Intent, offers []flight.View, exactDay bool) string {
	p := replies[in.Language]
	if p.unknown == "" {
		p = replies[LangEnglish]
	}
	if len(offers) == 0 {
		return fmt.Sprintf(p.noFlights, in.Destination)
	}

	var b strings.Builder
	if exactDay {
		b.WriteString(p.cheapest)
	} else {
		b.WriteString(p.nearest)
	}
	for i, v := range offers {
		fmt.Fprintf(&b, "\n%d. %s %s→%s %s, %s [%s]",
			i+1,
			v.FlightNumber,
			v.From,
			v.To,
			v.DepartureAt.Format("2006-01-02 15:04"),
			v.Price.StringFixed(2),
			v.PolicyLevel)
	}
	return b.String()
}
