package assistant_test

import (
	"time"

	"github.com/frahmantamala/travel-booking/internal/assistant"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var now = time.Date(2026, 10, 18, 15, 0, 0, 0, time.UTC)

var _ = Describe("Parse", func() {
	DescribeTable("guesses the travel intent",
		func(text string, want assistant.Intent) {
			Expect(assistant.Parse(text, now)).To(Equal(want))
		},
		Entry("english flight with date and party size", "Flight to Sochi tomorrow for 2 people", assistant.Intent{
			Kind: assistant.KindFlight, Destination: "Sochi", DestinationCode: "AER",
			DateOffset: 1, Date: "2026-10-19", Passengers: 2, Language: assistant.LangEnglish,
		}),
		Entry("russian flight with origin and inflected cities", "Билет из Москвы в Сочи послезавтра, летим вдвоем", assistant.Intent{
			Kind: assistant.KindFlight, Origin: "Moscow", OriginCode: "SVO", Destination: "Sochi", DestinationCode: "AER",
			DateOffset: 2, Date: "2026-10-20", Passengers: 2, Language: assistant.LangRussian,
		}),
		Entry("russian hotel in N days", "Нужна гостиница в Казани через 3 дня на 2 человек", assistant.Intent{
			Kind: assistant.KindHotel, Destination: "Kazan", DestinationCode: "KZN",
			DateOffset: 3, Date: "2026-10-21", Passengers: 2, Language: assistant.LangRussian,
		}),
		Entry("train next week", "train to Saint Petersburg next week", assistant.Intent{
			Kind: assistant.KindTrain, Destination: "Saint Petersburg", DestinationCode: "LED",
			DateOffset: 7, Date: "2026-10-25", Passengers: 1, Language: assistant.LangEnglish,
		}),
		Entry("airport codes and a short date", "SVO to KGD on 25.10", assistant.Intent{
			Kind: assistant.KindFlight, Origin: "Moscow", OriginCode: "SVO", Destination: "Kaliningrad", DestinationCode: "KGD",
			DateOffset: 7, Date: "2026-10-25", Passengers: 1, Language: assistant.LangEnglish,
		}),
		Entry("iso date and a spelled-out party size", "fly to Dubai on 2026-11-02 for three", assistant.Intent{
			Kind: assistant.KindFlight, Destination: "Dubai", DestinationCode: "DXB",
			DateOffset: 15, Date: "2026-11-02", Passengers: 3, Language: assistant.LangEnglish,
		}),
		Entry("a past short date rolls into next year", "ticket to Minsk 01.01", assistant.Intent{
			Kind: assistant.KindFlight, Destination: "Minsk", DestinationCode: "MSQ",
			DateOffset: 75, Date: "2027-01-01", Passengers: 1, Language: assistant.LangEnglish,
		}),
		Entry("nights are a length of stay", "hotel in Sochi for 3 nights", assistant.Intent{
			Kind: assistant.KindHotel, Destination: "Sochi", DestinationCode: "AER",
			Passengers: 1, Language: assistant.LangEnglish,
		}),
		Entry("weeks are a length of stay", "need a room in Dubai for 2 weeks", assistant.Intent{
			Kind: assistant.KindHotel, Destination: "Dubai", DestinationCode: "DXB",
			Passengers: 1, Language: assistant.LangEnglish,
		}),
		Entry("russian nights are a length of stay", "гостиница в Сочи на 3 ночи", assistant.Intent{
			Kind: assistant.KindHotel, Destination: "Sochi", DestinationCode: "AER",
			Passengers: 1, Language: assistant.LangRussian,
		}),
		Entry("ticket count as party size", "2 tickets to Moscow tomorrow", assistant.Intent{
			Kind: assistant.KindFlight, Destination: "Moscow", DestinationCode: "SVO",
			DateOffset: 1, Date: "2026-10-19", Passengers: 2, Language: assistant.LangEnglish,
		}),
		Entry("in N weeks", "fly to Sochi in 2 weeks", assistant.Intent{
			Kind: assistant.KindFlight, Destination: "Sochi", DestinationCode: "AER",
			DateOffset: 14, Date: "2026-11-01", Passengers: 1, Language: assistant.LangEnglish,
		}),
		Entry("russian in N weeks", "билет в Казань через 2 недели", assistant.Intent{
			Kind: assistant.KindFlight, Destination: "Kazan", DestinationCode: "KZN",
			DateOffset: 14, Date: "2026-11-01", Passengers: 1, Language: assistant.LangRussian,
		}),
		Entry("an impossible calendar date is ignored", "flight to Kazan on 30.02", assistant.Intent{
			Kind: assistant.KindFlight, Destination: "Kazan", DestinationCode: "KZN",
			Passengers: 1, Language: assistant.LangEnglish,
		}),
		Entry("small talk", "hello there", assistant.Intent{
			Kind: assistant.KindUnknown, Passengers: 1, Language: assistant.LangEnglish,
		}),
	)

	It("caps the party size", func() {
		Expect(assistant.Parse("flight to Kazan for 40 passengers", now).Passengers).To(Equal(9))
	})

	It("does not read a stay length as passengers", func() {
		in := assistant.Parse("hotel in Sochi for 3 days", now)
		Expect(in.Kind).To(Equal(assistant.KindHotel))
		Expect(in.Passengers).To(Equal(1))
	})
})

var _ = Describe("Reply", func() {
	It("confirms a flight request", func() {
		Expect(assistant.Reply(assistant.Parse("Flight to Sochi tomorrow for 2 people", now))).
			To(Equal("Looking for flights to Sochi on 2026-10-19 for 2 passengers."))
	})

	It("asks for a destination when none was given", func() {
		Expect(assistant.Reply(assistant.Parse("I need a flight", now))).To(HavePrefix("Where would you like to fly?"))
		Expect(assistant.Reply(assistant.Parse("нужен отель", now))).To(Equal("В каком городе нужен отель?"))
	})

	It("explains what it can do", func() {
		Expect(assistant.Reply(assistant.Parse("hello", now))).To(ContainSubstring("flight to Sochi"))
	})

	DescribeTable("declines passengers in russian",
		func(n int, want string) {
			in := assistant.Intent{Kind: assistant.KindFlight, Destination: "Sochi", Passengers: n, Language: assistant.LangRussian}
			Expect(assistant.Reply(in)).To(HaveSuffix(want + "."))
		},
		Entry("one", 1, "1 пассажир"),
		Entry("two", 2, "2 пассажира"),
		Entry("five", 5, "5 пассажиров"),
		Entry("eleven", 11, "11 пассажиров"),
		Entry("twenty one", 21, "21 пассажир"),
	)
})
