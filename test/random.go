package test

import (
	"math/rand"

	"github.com/jaswdr/faker"
	"github.com/onsi/ginkgo/v2"
)

// Source is seeded from the ginkgo seed so failing fixtures can be reproduced with --seed
var Source = rand.NewSource(ginkgo.GinkgoRandomSeed())

// Faker generates the random patients, clients and clinical records of the fixtures
var Faker = faker.NewWithSeed(Source)
