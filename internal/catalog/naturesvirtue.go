package catalog

// NaturesVirtue returns the Nature's Virtue product list.
func NaturesVirtue() *Catalog {
	return &Catalog{
		Shop: ShopInfo{
			Name:      "Nature's Virtue",
			Location:  "Habaraduwa, Galle, Sri Lanka",
			Phone:     "+94750912066",
			Email:     "info@naturesvirtue.lk",
			Website:   "https://naturesvirtue.lk",
			Hours:     "24/7 Online",
			Certified: "ISO 22000:2018 & HACCP",
			Delivery:  "Island-wide delivery, Cash on Delivery available",
			Payment:   "Cash, Card, Bank Transfer, Online",
		},
		Categories: []Category{
			{Name: "Natural Cereal & Baby Food", Products: []Product{
				{"Herali Cereal with Mango", 1695},
				{"Herali Cereal with Soursop", 1495},
				{"Herali Cereal Banana", 1250},
				{"Bowl Of Herali Cereal", 1250},
			}},
			{Name: "Herbal Drinks", Products: []Product{
				{"Red Hibiscus & Lemon", 2650},
				{"Soursop Black Tea", 1495},
				{"Pineapple Black Tea", 1765},
				{"Lunuwila Tea", 1250},
				{"Detox Morning Tea", 1090},
				{"Yakanaran Drink", 890},
				{"Lemongrass Tea", 480},
				{"Lemongrass Tea Cut", 550},
			}},
			{Name: "Food Supplements & Beauty Care", Products: []Product{
				{"Hair Growth Oil", 2950},
				{"Skin Glow Pro (4 in One)", 2850},
				{"Skin Glow BC Drink", 1850},
			}},
			{Name: "Dehydrated Fruits", Products: []Product{
				{"Mixed Fruit Cubes", 2250},
				{"Dehydrated Mix Fruit Cubes", 1250},
				{"Star Fruits", 1125},
				{"Salted Bilimbi", 1125},
				{"Dehydrated Mango", 890},
				{"Blue Lotus Flower", 750},
				{"Dehydrated Red Hibiscus", 750},
				{"Jack Fruits (Waraka)", 650},
				{"Dehydrated Papaya", 560},
				{"Lunu Bilim", 495},
				{"Dehydrated Breadfruit", 460},
				{"Dehydrated Banana", 380},
				{"Ripe Banana Coins Pack", 380},
				{"Dehydrated Lemon Slices", 340},
				{"Dehydrated Pandan Leaves", 320},
				{"Jack", 220},
			}},
			{Name: "Herbal Powders & Supplements", Products: []Product{
				{"Soursop Fruits Powder", 2225},
				{"Red Hibiscus Powder", 1650},
				{"Tomato Powder", 1250},
				{"Heenbovitya Powder", 1250},
				{"Centella Asiatica Powder (Gotukola)", 1250},
				{"Beetroot Powder", 1200},
				{"Bitter Gourd Powder", 1150},
				{"Lunuwila Powder Bottle", 1100},
				{"Moringa Leaves Powder", 1000},
				{"Carrot Powder", 980},
				{"Asparagus Racemosus Powder", 980},
				{"Unsalted Dehydrated Spray", 950},
				{"Soursop Fruit Powder", 950},
				{"Jackfruit Powder", 870},
				{"Blue Butterfly Pea Flower", 850},
				{"Balloon Vine Powder", 750},
				{"Moringa Powder Bottle", 650},
				{"Mix Herbal Porridge Bottle", 480},
				{"Curry Leaves Powder Bottle", 480},
				{"Neem Leaf Powder", 450},
				{"Mixed Herbal Porridge", 450},
				{"Insulin Plant Leaf Powder", 360},
			}},
		},
	}
}
