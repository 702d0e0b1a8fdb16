package catalog

// DefaultItems is the built-in bakery catalog.
func DefaultItems() []Item {
	return []Item{
		{
			ID:          "1",
			Name:        "Original Classic Lapis",
			Price:       85000,
			Description: "Our signature traditional Malang layer cake with rich buttery flavor and smooth texture.",
			Category:    "Classic",
			Image:       "https://picsum.photos/seed/lapis1/600/600",
		},
		{
			ID:          "2",
			Name:        "Choco-Malt Layer",
			Price:       95000,
			Description: "Indulgent Belgian chocolate layers combined with crunchy malt flakes for a modern twist.",
			Category:    "Chocolate",
			Image:       "https://picsum.photos/seed/lapis2/600/600",
		},
		{
			ID:          "3",
			Name:        "Premium Cheese Lapis",
			Price:       110000,
			Description: "Topped with generous grated cheddar and stuffed with creamy cheese layers.",
			Category:    "Cheese",
			Image:       "https://picsum.photos/seed/lapis3/600/600",
		},
		{
			ID:          "4",
			Name:        "Pandan Suji Delight",
			Price:       90000,
			Description: "Fragrant natural Pandan and Suji leaf extract mixed into our softest layer cake sponge.",
			Category:    "Specialty",
			Image:       "https://picsum.photos/seed/lapis4/600/600",
		},
		{
			ID:          "5",
			Name:        "Strawberry Velvet",
			Price:       98000,
			Description: "Sweet and tangy strawberry jam layered between moist vanilla sponge cake.",
			Category:    "Fruit",
			Image:       "https://picsum.photos/seed/lapis5/600/600",
		},
		{
			ID:          "6",
			Name:        "Mocha Almond Roast",
			Price:       105000,
			Description: "A coffee-infused delight topped with crunchy toasted almond slices.",
			Category:    "Coffee",
			Image:       "https://picsum.photos/seed/lapis6/600/600",
		},
	}
}
