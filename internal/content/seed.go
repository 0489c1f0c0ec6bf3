package content

// Static tier payloads. The chemistry track walks the periodic table in
// atomic-number order; the cat track follows breed popularity with a fact
// pulled from The Cat API data.

// ChemistryTrack returns the element leveling track.
func ChemistryTrack() Track {
	return buildTrack("chemistry", []TierPayload{
		{Label: "Hydrogen", Detail: "H"},
		{Label: "Helium", Detail: "He"},
		{Label: "Lithium", Detail: "Li"},
		{Label: "Beryllium", Detail: "Be"},
		{Label: "Boron", Detail: "B"},
		{Label: "Carbon", Detail: "C"},
		{Label: "Nitrogen", Detail: "N"},
		{Label: "Oxygen", Detail: "O"},
		{Label: "Fluorine", Detail: "F"},
		{Label: "Neon", Detail: "Ne"},
		{Label: "Sodium", Detail: "Na"},
		{Label: "Magnesium", Detail: "Mg"},
		{Label: "Aluminium", Detail: "Al"},
		{Label: "Silicon", Detail: "Si"},
		{Label: "Phosphorus", Detail: "P"},
		{Label: "Sulfur", Detail: "S"},
		{Label: "Chlorine", Detail: "Cl"},
		{Label: "Argon", Detail: "Ar"},
		{Label: "Potassium", Detail: "K"},
		{Label: "Calcium", Detail: "Ca"},
		{Label: "Scandium", Detail: "Sc"},
		{Label: "Titanium", Detail: "Ti"},
		{Label: "Vanadium", Detail: "V"},
		{Label: "Chromium", Detail: "Cr"},
		{Label: "Manganese", Detail: "Mn"},
		{Label: "Iron", Detail: "Fe"},
		{Label: "Cobalt", Detail: "Co"},
		{Label: "Nickel", Detail: "Ni"},
		{Label: "Copper", Detail: "Cu"},
		{Label: "Zinc", Detail: "Zn"},
	})
}

// CatTrack returns the cat-breed leveling track.
func CatTrack() Track {
	return buildTrack("cat", []TierPayload{
		{Label: "Domestic Shorthair", Detail: "The classic family cat"},
		{Label: "Maine Coon", Detail: "Gentle giant, lives 12-15 years"},
		{Label: "Siamese", Detail: "Talkative and social"},
		{Label: "Persian", Detail: "Calm lap cat with a long coat"},
		{Label: "Ragdoll", Detail: "Goes limp when picked up"},
		{Label: "Bengal", Detail: "Wild-looking spotted coat"},
		{Label: "Abyssinian", Detail: "One of the oldest known breeds"},
		{Label: "Sphynx", Detail: "Hairless and warm to the touch"},
		{Label: "Scottish Fold", Detail: "Folded ears, owl-like face"},
		{Label: "British Shorthair", Detail: "Round face, plush coat"},
		{Label: "Russian Blue", Detail: "Silvery coat, green eyes"},
		{Label: "Norwegian Forest", Detail: "Built for cold climates"},
		{Label: "Birman", Detail: "White gloves on every paw"},
		{Label: "Burmese", Detail: "Dog-like and people-oriented"},
		{Label: "Devon Rex", Detail: "Curly coat, mischievous streak"},
		{Label: "Turkish Angora", Detail: "Elegant and athletic"},
		{Label: "Manx", Detail: "Famously tailless"},
		{Label: "Egyptian Mau", Detail: "Fastest of the domestic cats"},
		{Label: "Savannah", Detail: "Tall, serval ancestry"},
		{Label: "Singapura", Detail: "Smallest recognized breed"},
	})
}
