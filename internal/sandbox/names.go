package sandbox

import (
	"fmt"
	"math/rand/v2"
	"time"
)

// Package-level default RNG to avoid allocations when rng is nil
var defaultRNG = rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0))

// SouthNameProbability is the probability (0.0-1.0) of picking a name from
// the South Indian lists.
const SouthNameProbability = 0.40

var (
	// NorthMaleFirstNames is the list of North Indian male first names
	NorthMaleFirstNames = []string{
		"Aarav", "Vivaan", "Aditya", "Arjun", "Rohan", "Karan", "Rahul", "Amit",
		"Vikram", "Sanjay", "Rajesh", "Manoj", "Deepak", "Ankit", "Nikhil", "Harsh",
		"Yash", "Kunal", "Varun", "Gaurav", "Siddharth", "Abhishek", "Pranav", "Ishaan",
	}

	// NorthFemaleFirstNames is the list of North Indian female first names
	NorthFemaleFirstNames = []string{
		"Ananya", "Diya", "Priya", "Neha", "Pooja", "Riya", "Kavya", "Sneha",
		"Aditi", "Shreya", "Nisha", "Simran", "Anjali", "Ritu", "Sunita", "Meena",
		"Isha", "Tanvi", "Pallavi", "Swati", "Aisha", "Kiran", "Sakshi", "Mansi",
	}

	// NorthLastNames is the list of North Indian last names
	NorthLastNames = []string{
		"Sharma", "Verma", "Gupta", "Singh", "Kapoor", "Malhotra", "Agarwal", "Jain",
		"Mehta", "Shah", "Chopra", "Bansal", "Saxena", "Joshi", "Mishra", "Pandey",
		"Khanna", "Bhatia", "Arora", "Sethi",
	}

	// SouthMaleFirstNames is the list of South Indian male first names
	SouthMaleFirstNames = []string{
		"Karthik", "Arun", "Suresh", "Ramesh", "Venkat", "Srinivas", "Ravi", "Anil",
		"Prakash", "Ganesh", "Vijay", "Harish", "Naveen", "Mahesh", "Dinesh", "Sandeep",
	}

	// SouthFemaleFirstNames is the list of South Indian female first names
	SouthFemaleFirstNames = []string{
		"Lakshmi", "Divya", "Asha", "Meera", "Revathi", "Deepa", "Kavitha", "Sowmya",
		"Bhavana", "Gayathri", "Padma", "Shalini", "Vidya", "Harini", "Nandini", "Anitha",
	}

	// SouthLastNames is the list of South Indian last names
	SouthLastNames = []string{
		"Iyer", "Rao", "Reddy", "Nair", "Menon", "Pillai", "Krishnan", "Subramanian",
		"Naidu", "Hegde", "Shetty", "Kumar", "Raman", "Gowda", "Varma", "Chandran",
	}
)

// GeneratePersonName generates a realistic name based on gender.
//
// Gender should be "Male" or "Female"; anything else picks either list.
// If rng is nil, uses shared default RNG.
// Returns "Firstname Lastname".
func GeneratePersonName(gender string, rng *rand.Rand) string {
	if rng == nil {
		rng = defaultRNG
	}

	south := rng.Float64() < SouthNameProbability
	if gender != "Male" && gender != "Female" {
		gender = "Female"
		if rng.IntN(2) == 0 {
			gender = "Male"
		}
	}

	var first, last []string
	switch {
	case south && gender == "Male":
		first, last = SouthMaleFirstNames, SouthLastNames
	case south:
		first, last = SouthFemaleFirstNames, SouthLastNames
	case gender == "Male":
		first, last = NorthMaleFirstNames, NorthLastNames
	default:
		first, last = NorthFemaleFirstNames, NorthLastNames
	}

	return first[rng.IntN(len(first))] + " " + last[rng.IntN(len(last))]
}

// GeneratePhone returns a 10-digit mobile number starting with 6 to 9.
func GeneratePhone(rng *rand.Rand) string {
	if rng == nil {
		rng = defaultRNG
	}
	return fmt.Sprintf("%d%09d", 6+rng.IntN(4), rng.IntN(1_000_000_000))
}

// GenerateDateOfBirth returns a YYYY-MM-DD birth date for an adult aged 18 to 90 at ref.
func GenerateDateOfBirth(ref time.Time, rng *rand.Rand) string {
	if rng == nil {
		rng = defaultRNG
	}
	days := 18*365 + rng.IntN(72*365)
	return ref.AddDate(0, 0, -days).Format("2006-01-02")
}
