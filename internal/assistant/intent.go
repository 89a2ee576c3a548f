package assistant

import (
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"
)

type Kind string

const (
	KindFlight  Kind = "FLIGHT"
	KindHotel   Kind = "HOTEL"
	KindTrain   Kind = "TRAIN"
	KindUnknown Kind = "UNKNOWN"
)

type Language string

const (
	LangEnglish Language = "en"
	LangRussian Language = "ru"
)

// Intent is the travel request guessed from free text. Date is empty when the text names no day.
type Intent struct {
	Kind            Kind     `json:"kind"`
	Origin          string   `json:"origin,omitempty"`
	OriginCode      string   `json:"origin_code,omitempty"`
	Destination     string   `json:"destination,omitempty"`
	DestinationCode string   `json:"destination_code,omitempty"`
	DateOffset      int      `json:"date_offset"`
	Date            string   `json:"date,omitempty"`
	Passengers      int      `json:"passengers"`
	Language        Language `json:"language"`
}

type city struct {
	Name  string
	Code  string
	stems []string
}

var cities = []city{
	{"Moscow", "SVO", []string{"moscow", "москв"}},
	{"Saint Petersburg", "LED", []string{"petersburg", "piter", "spb", "петербург", "питер", "спб"}},
	{"Sochi", "AER", []string{"sochi", "сочи"}},
	{"Kazan", "KZN", []string{"kazan", "казан"}},
	{"Kaliningrad", "KGD", []string{"kaliningrad", "калининград"}},
	{"Yekaterinburg", "SVX", []string{"yekaterinburg", "ekaterinburg", "екатеринбург"}},
	{"Novosibirsk", "OVB", []string{"novosibirsk", "новосибирск"}},
	{"Vladivostok", "VVO", []string{"vladivostok", "владивосток"}},
	{"Minsk", "MSQ", []string{"minsk", "минск"}},
	{"Istanbul", "IST", []string{"istanbul", "стамбул"}},
	{"Dubai", "DXB", []string{"dubai", "дубай", "дубаи"}},
}

var kindStems = []struct {
	kind  Kind
	stems []string
}{
	{KindTrain, []string{"train", "rail", "поезд", "жд", "ржд", "сапсан", "ласточк", "электричк"}},
	{KindHotel, []string{"hotel", "room", "stay", "accommodation", "hostel", "отел", "гостиниц", "номер", "прожив", "хостел"}},
	{KindFlight, []string{"flight", "fly", "plane", "air", "ticket", "рейс", "билет", "самолет", "лететь", "полет", "перелет", "вылет", "авиа"}},
}

var numberWords = map[string]int{
	"one": 1, "two": 2, "three": 3, "four": 4, "five": 5, "six": 6, "seven": 7, "eight": 8, "nine": 9, "ten": 10,
	"один": 1, "одна": 1, "одного": 1, "два": 2, "две": 2, "двух": 2, "три": 3, "трех": 3, "четыре": 4, "четырех": 4,
	"пять": 5, "пяти": 5, "шесть": 6, "шести": 6, "семь": 7, "семи": 7, "восемь": 8, "восьми": 8,
	"девять": 9, "девяти": 9, "десять": 10, "десяти": 10,
}

var groupWords = map[string]int{
	"вдвоем": 2, "двое": 2, "втроем": 3, "трое": 3, "вчетвером": 4, "четверо": 4, "впятером": 5, "пятеро": 5,
	"couple": 2,
}

var (
	paxStems    = []string{"people", "person", "passeng", "pax", "adult", "traveler", "traveller", "guest", "ticket", "seat", "человек", "чел", "пассажир", "взросл", "гост", "билет", "мест"}
	dayStems    = []string{"day", "дн", "день"}
	weekStems   = []string{"week", "недел"}
	stayStems   = []string{"day", "дн", "день", "night", "ноч", "week", "недел", "month", "месяц"}
	originWords = map[string]bool{"from": true, "из": true, "от": true}

	isoDate   = regexp.MustCompile(`(\d{4})-(\d{2})-(\d{2})`)
	shortDate = regexp.MustCompile(`(\d{1,2})\.(\d{1,2})(?:\.(\d{4}))?`)
	iataCode  = regexp.MustCompile(`\b[A-Z]{3}\b`)
)

const maxPassengers = 9

// Parse guesses the intent of text relative to now.
func Parse(text string, now time.Time) Intent {
	in := Intent{Kind: KindUnknown, Passengers: 1, Language: detectLanguage(text)}
	lower := strings.ReplaceAll(strings.ToLower(text), "ё", "е")
	tokens := tokenize(lower)

	in.Kind = parseKind(tokens)
	parsePlaces(&in, text, tokens)
	if in.Kind == KindUnknown && in.Destination != "" {
		in.Kind = KindFlight
	}

	if offset, ok := parseDate(lower, tokens, now); ok {
		today := civil(now)
		in.DateOffset = offset
		in.Date = today.AddDate(0, 0, offset).Format("2006-01-02")
	}
	if n, ok := parsePassengers(tokens); ok {
		in.Passengers = n
	}
	return in
}

func detectLanguage(text string) Language {
	for _, r := range text {
		if unicode.Is(unicode.Cyrillic, r) {
			return LangRussian
		}
	}
	return LangEnglish
}

func tokenize(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

func hasStem(token string, stems []string) bool {
	for _, s := range stems {
		if strings.HasPrefix(token, s) {
			return true
		}
	}
	return false
}

func parseKind(tokens []string) Kind {
	for _, ks := range kindStems {
		for _, t := range tokens {
			if hasStem(t, ks.stems) {
				return ks.kind
			}
		}
	}
	return KindUnknown
}

func lookupCity(token string) (city, bool) {
	for _, c := range cities {
		if hasStem(token, c.stems) {
			return c, true
		}
	}
	return city{}, false
}

// parsePlaces takes a city preceded by "from" as the origin and the first other city as the destination.
// Upper-case IATA codes in the original text count as cities too.
func parsePlaces(in *Intent, text string, tokens []string) {
	for i, t := range tokens {
		c, ok := lookupCity(t)
		if !ok {
			continue
		}
		if i > 0 && originWords[tokens[i-1]] && in.Origin == "" {
			in.Origin, in.OriginCode = c.Name, c.Code
			continue
		}
		if in.Destination == "" {
			in.Destination, in.DestinationCode = c.Name, c.Code
		}
	}
	if in.Destination != "" {
		return
	}

	var found []city
	for _, code := range iataCode.FindAllString(text, -1) {
		for _, c := range cities {
			if c.Code == code {
				found = append(found, c)
			}
		}
	}
	switch {
	case len(found) >= 2 && in.Origin == "":
		in.Origin, in.OriginCode = found[0].Name, found[0].Code
		in.Destination, in.DestinationCode = found[1].Name, found[1].Code
	case len(found) >= 1:
		last := found[len(found)-1]
		if last.Name != in.Origin {
			in.Destination, in.DestinationCode = last.Name, last.Code
		}
	}
}

func number(token string) (int, bool) {
	if n, err := strconv.Atoi(token); err == nil {
		return n, true
	}
	n, ok := numberWords[token]
	return n, ok
}

func parseDate(lower string, tokens []string, now time.Time) (int, bool) {
	today := civil(now)

	if m := isoDate.FindStringSubmatch(lower); m != nil {
		if d, err := time.Parse("2006-01-02", m[0]); err == nil {
			return daysBetween(today, d), true
		}
	}
	if m := shortDate.FindStringSubmatch(lower); m != nil {
		dd, _ := strconv.Atoi(m[1])
		mm, _ := strconv.Atoi(m[2])
		year := today.Year()
		if m[3] != "" {
			year, _ = strconv.Atoi(m[3])
		}
		if mm >= 1 && mm <= 12 && dd >= 1 && dd <= 31 {
			d := time.Date(year, time.Month(mm), dd, 0, 0, 0, 0, time.UTC)
			if m[3] == "" && d.Before(today) {
				d = time.Date(year+1, time.Month(mm), dd, 0, 0, 0, 0, time.UTC)
			}
			if d.Day() == dd {
				return daysBetween(today, d), true
			}
		}
	}

	if strings.Contains(lower, "day after tomorrow") {
		return 2, true
	}
	for i, t := range tokens {
		switch t {
		case "today", "tonight", "сегодня":
			return 0, true
		case "tomorrow", "завтра":
			return 1, true
		case "послезавтра":
			return 2, true
		case "in", "через":
			if i+1 >= len(tokens) {
				continue
			}
			next := tokens[i+1]
			if next == "a" && i+2 < len(tokens) {
				next = tokens[i+2]
			}
			if hasStem(next, weekStems) {
				return 7, true
			}
			if n, ok := number(next); ok && i+2 < len(tokens) {
				switch {
				case hasStem(tokens[i+2], dayStems):
					return n, true
				case hasStem(tokens[i+2], weekStems):
					return n * 7, true
				}
			}
		case "next", "следующей", "следующую", "следующая":
			if i+1 < len(tokens) && hasStem(tokens[i+1], weekStems) {
				return 7, true
			}
		}
	}
	return 0, false
}

func parsePassengers(tokens []string) (int, bool) {
	for i, t := range tokens {
		if n, ok := groupWords[t]; ok {
			return n, true
		}
		n, ok := number(t)
		if !ok || i+1 >= len(tokens) {
			continue
		}
		if hasStem(tokens[i+1], paxStems) {
			return clamp(n), true
		}
	}
	// "for 3 nights" is a length of stay, not a party size
	for i, t := range tokens {
		if (t == "for" || t == "на") && i+1 < len(tokens) {
			if n, ok := number(tokens[i+1]); ok && n <= maxPassengers && !(i+2 < len(tokens) && hasStem(tokens[i+2], stayStems)) {
				return clamp(n), true
			}
		}
	}
	return 0, false
}

func clamp(n int) int {
	if n < 1 {
		return 1
	}
	if n > maxPassengers {
		return maxPassengers
	}
	return n
}

func civil(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func daysBetween(from, to time.Time) int {
	return int(civil(to).Sub(civil(from)).Hours() / 24)
}
