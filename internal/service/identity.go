package service

import (
	"fmt"
)

var (
	firstNames = []string{
		"Muhammad", "Ahmed", "Ali", "Hassan", "Usman", "Bilal", "Hamza", "Zaid", "Omar", "Ibrahim",
		"Fatima", "Ayesha", "Zainab", "Maryam", "Khadija", "Sara", "Hira", "Sana", "Noor", "Amna",
	}

	lastNames = []string{
		"Khan", "Ahmed", "Ali", "Malik", "Sheikh", "Hussain", "Raza", "Siddiqui", "Qureshi", "Butt",
		"Chaudhry", "Awan", "Iqbal", "Mirza", "Javed", "Rashid", "Nawaz", "Akram", "Saeed", "Tariq",
	}

	cities = []string{
		"Karachi", "Lahore", "Islamabad", "Rawalpindi", "Faisalabad", "Multan", "Peshawar", "Quetta",
		"Sialkot", "Gujranwala", "Hyderabad", "Bahawalpur", "Sargodha", "Sukkur", "Abbottabad",
	}

	areas = []string{
		"Gulshan", "DHA Phase", "Johar Town", "Model Town", "Bahria Town", "Clifton", "Saddar",
		"Garden Town", "F-10", "G-11", "I-8", "Blue Area", "Cantt", "University Road", "Mall Road",
	}

	// mobile network prefixes, the "03" is implied
	mobilePrefixes = []string{"00", "01", "02", "03", "04", "05", "06", "11", "12", "13", "21", "22", "23", "32", "33"}
)

// Customer is a synthetic buyer for an AUTO order.
type Customer struct {
	Name    string
	Phone   string
	City    string
	Address string
}

func NewCustomer(rng Rand) Customer {
	city := pick(rng, cities)
	return Customer{
		Name:    fmt.Sprintf("%s %s", pick(rng, firstNames), pick(rng, lastNames)),
		Phone:   fmt.Sprintf("03%s-%07d", pick(rng, mobilePrefixes), rng.Intn(10_000_000)),
		City:    city,
		Address: fmt.Sprintf("House %d, Street %d, %s, %s", 1+rng.Intn(500), 1+rng.Intn(50), pick(rng, areas), city),
	}
}

func pick(rng Rand, values []string) string {
	return values[rng.Intn(len(values))]
}
