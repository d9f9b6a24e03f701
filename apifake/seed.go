package apifake

import "github.com/jrsteele09/go-cafe-storefront/catalog"

// MenuCoffees is the house drink menu seeded by SeedMenu.
var MenuCoffees = []catalog.Fields{
	{
		Name:        "Espresso",
		Description: "Kopi hitam pekat dengan cita rasa yang kuat dan aromatis. Dibuat dari biji kopi pilihan yang disangrai sempurna.",
		Price:       15000,
		Category:    "Classic",
		Ingredients: []string{"Espresso shot", "Hot water"},
		Caffeine:    "High",
	},
	{
		Name:        "Cappuccino",
		Description: "Perpaduan espresso dengan steamed milk yang creamy dan foam susu yang lembut. Cocok untuk pecinta kopi dengan tekstur halus.",
		Price:       22000,
		Category:    "Milk Based",
		Ingredients: []string{"Espresso shot", "Steamed milk", "Milk foam"},
		Caffeine:    "Medium",
	},
	{
		Name:        "Latte",
		Description: "Espresso dengan susu panas yang lembut dan foam tipis. Rasa kopi yang balance dengan kelembutan susu.",
		Price:       25000,
		Category:    "Milk Based",
		Ingredients: []string{"Espresso shot", "Steamed milk", "Light foam"},
		Caffeine:    "Medium",
	},
	{
		Name:        "Americano",
		Description: "Espresso yang dicampur dengan air panas. Memberikan rasa kopi yang kuat namun tidak terlalu pekat.",
		Price:       18000,
		Category:    "Classic",
		Ingredients: []string{"Espresso shot", "Hot water"},
		Caffeine:    "High",
	},
	{
		Name:        "Mocha",
		Description: "Kombinasi espresso, susu, dan cokelat yang menghasilkan rasa manis dan creamy. Perfect untuk pecinta cokelat.",
		Price:       28000,
		Category:    "Specialty",
		Ingredients: []string{"Espresso shot", "Steamed milk", "Chocolate syrup", "Whipped cream"},
		Caffeine:    "Medium",
	},
	{
		Name:        "Macchiato",
		Description: "Espresso dengan sedikit susu foam di atasnya. Memberikan kontras rasa yang unik antara pahit dan creamy.",
		Price:       20000,
		Category:    "Classic",
		Ingredients: []string{"Espresso shot", "Milk foam"},
		Caffeine:    "High",
	},
}

var menuFoods = []catalog.Fields{
	{Name: "Croissant Butter", Description: "Croissant renyah dengan mentega premium.", Price: 18000, Category: "Pastries"},
	{Name: "Sandwich Ayam", Description: "Roti gandum dengan ayam panggang dan sayuran segar.", Price: 32000, Category: "Sandwiches"},
	{Name: "Rice Bowl Teriyaki", Description: "Nasi hangat dengan ayam teriyaki dan telur.", Price: 38000, Category: "Rice Bowl"},
	{Name: "Nasi Goreng Kampung", Description: "Nasi goreng khas kampung dengan sambal terasi.", Price: 42000, Category: "Heavy Meals"},
}

// SeedMenu loads the house menu: every coffee in MenuCoffees and a few foods.
func (b *Backend) SeedMenu() {
	for _, f := range MenuCoffees {
		b.Seed(catalog.KindCoffee, f, "")
	}
	for _, f := range menuFoods {
		b.Seed(catalog.KindFood, f, "")
	}
}
