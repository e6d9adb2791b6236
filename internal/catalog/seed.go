package catalog

// Staples is the starter catalog loaded into a fresh session.
func Staples() []Product {
	mk := func(name string, dept Department, price float64, unit string, n Nutrition, organic bool, diets ...string) Product {
		return Product{
			Name:           name,
			Category:       dept,
			Price:          price,
			Unit:           unit,
			Nutrition:      n,
			DietTypes:      diets,
			Organic:        organic,
			ImageURL:       PlaceholderImage,
			StoreLocations: []StoreLocation{HouseLocation(dept)},
		}
	}

	return []Product{
		mk("Chicken Breast, Boneless Skinless", MeatSeafood, 8.99, "lb", Nutrition{165, 31, 0, 3.6, 0}, false, "High-Protein", "Keto", "Paleo", "Gluten-Free"),
		mk("Atlantic Salmon Fillet", MeatSeafood, 12.49, "lb", Nutrition{208, 20, 0, 13, 0}, false, "High-Protein", "Keto", "Paleo", "Mediterranean"),
		mk("Large Eggs, Dozen", DairyEggs, 3.79, "dozen", Nutrition{72, 6.3, 0.4, 4.8, 0}, false, "Vegetarian", "Keto", "Gluten-Free"),
		mk("Extra Firm Tofu", MeatSeafood, 2.49, "each", Nutrition{94, 10, 2, 5.5, 1}, true, "Vegan", "Vegetarian", "High-Protein"),
		mk("Broccoli Crowns", Produce, 2.29, "lb", Nutrition{34, 2.8, 7, 0.4, 2.6}, false, "Vegan", "Vegetarian", "Keto", "Paleo"),
		mk("Baby Spinach", Produce, 3.49, "each", Nutrition{23, 2.9, 3.6, 0.4, 2.2}, true, "Vegan", "Vegetarian", "Keto", "Paleo"),
		mk("Roma Tomatoes", Produce, 1.49, "lb", Nutrition{18, 0.9, 3.9, 0.2, 1.2}, false, "Vegan", "Vegetarian", "Mediterranean"),
		mk("Bananas", Produce, 0.59, "lb", Nutrition{105, 1.3, 27, 0.4, 3.1}, false, "Vegan", "Vegetarian"),
		mk("Blueberries, 1 pint", Produce, 4.99, "each", Nutrition{84, 1.1, 21, 0.5, 3.6}, true, "Vegan", "Vegetarian", "Paleo"),
		mk("Brown Rice", BakeryGrains, 2.99, "bag", Nutrition{216, 5, 45, 1.8, 3.5}, false, "Vegan", "Vegetarian", "Gluten-Free"),
		mk("Whole Wheat Bread", BakeryGrains, 3.29, "loaf", Nutrition{81, 4, 14, 1.1, 1.9}, false, "Vegan", "Vegetarian"),
		mk("Greek Yogurt, Plain", DairyEggs, 5.49, "each", Nutrition{100, 17, 6, 0.7, 0}, false, "Vegetarian", "High-Protein", "Gluten-Free"),
		mk("Raw Almonds", NutsSeeds, 7.99, "oz", Nutrition{164, 6, 6, 14, 3.5}, false, "Vegan", "Vegetarian", "Keto", "Paleo"),
		mk("Fresh Basil", HerbsSpices, 2.49, "bunch", Nutrition{1, 0.2, 0.1, 0, 0.1}, true, "Vegan", "Vegetarian"),
		mk("Extra Virgin Olive Oil", Pantry, 9.99, "bottle", Nutrition{119, 0, 0, 13.5, 0}, false, "Vegan", "Vegetarian", "Keto", "Paleo", "Mediterranean"),
	}
}
