package test

import (
	"time"

	"github.com/vetcare/vetportal/resources"
	"github.com/vetcare/vetportal/test"
)

var species = []string{"Dog", "Cat", "Rabbit", "Parrot", "Horse"}

func RandomId() int {
	return test.Faker.IntBetween(1, 1_000_000)
}

func RandomClient() resources.Record {
	person := test.Faker.Person()
	return resources.Record{
		"id":         float64(RandomId()),
		"first_name": person.FirstName(),
		"last_name":  person.LastName(),
		"email":      test.Faker.Internet().Email(),
		"phone":      test.Faker.Phone().Number(),
		"address":    test.Faker.Address().Address(),
	}
}

func RandomPatient(client resources.Record) resources.Record {
	return resources.Record{
		"id":         float64(RandomId()),
		"name":       test.Faker.Pet().Name(),
		"species":    test.Faker.RandomStringElement(species),
		"breed":      test.Faker.Lorem().Word(),
		"sex":        test.Faker.RandomStringElement([]string{"male", "female"}),
		"birth_date": test.Faker.Time().TimeBetween(time.Now().AddDate(-15, 0, 0), time.Now()).Format(time.DateOnly),
		"client":     client["id"],
	}
}

func RandomVisit(patientId any) resources.Record {
	return resources.Record{
		"id":         float64(RandomId()),
		"patient":    patientId,
		"visit_date": RandomDate(),
		"reason":     test.Faker.Lorem().Sentence(4),
		"notes":      test.Faker.Lorem().Sentence(8),
	}
}

// RandomSectionRecord returns a record of a report section referencing the patient directly
func RandomSectionRecord(patientId any) resources.Record {
	return resources.Record{
		"id":      float64(RandomId()),
		"patient": patientId,
		"name":    test.Faker.Lorem().Word(),
		"notes":   test.Faker.Lorem().Sentence(6),
		"date":    RandomDate(),
	}
}

func RandomVitals(patientId any) resources.Record {
	return resources.Record{
		"id":          float64(RandomId()),
		"patient":     patientId,
		"date":        RandomDate(),
		"weight":      test.Faker.Float64(1, 1, 60),
		"temperature": test.Faker.Float64(1, 37, 40),
		"heart_rate":  float64(test.Faker.IntBetween(60, 180)),
	}
}

func RandomDate() string {
	return test.Faker.Time().TimeBetween(time.Now().AddDate(-2, 0, 0), time.Now()).Format(time.DateOnly)
}
