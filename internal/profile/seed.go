package profile

// SeedProfiles is the fixed demo community pool. Seed ids are immutable and
// reserved: a custom profile may never shadow one, and seed rows are never
// written back to storage.
var SeedProfiles = []Profile{
	{
		ID:        "1",
		Name:      "Elena",
		Age:       26,
		Bio:       "Software engineer by day, urban explorer by night. Looking for someone who can debate tabs vs spaces and then go for tacos.",
		Interests: []string{"Coding", "Tacos", "Photography", "Hiking"},
		Photos:    []string{"https://picsum.photos/seed/elena/600/800"},
		Location:  "San Francisco, CA",
		Distance:  2.4,
	},
	{
		ID:        "2",
		Name:      "Marcus",
		Age:       29,
		Bio:       "Avid record collector and amateur chef. I make a mean mushroom risotto. Let's trade music recommendations!",
		Interests: []string{"Vinyl", "Cooking", "Jazz", "Architecture"},
		Photos:    []string{"https://picsum.photos/seed/marcus/600/800"},
		Location:  "Brooklyn, NY",
		Distance:  5.1,
	},
	{
		ID:        "3",
		Name:      "Sophia",
		Age:       24,
		Bio:       "Loves golden retrievers and rainy Sundays. Currently learning to play the cello. Life is too short for boring coffee.",
		Interests: []string{"Dogs", "Cello", "Coffee", "Poetry"},
		Photos:    []string{"https://picsum.photos/seed/sophia/600/800"},
		Location:  "Austin, TX",
		Distance:  3.7,
	},
	{
		ID:        "4",
		Name:      "Julian",
		Age:       31,
		Bio:       "Gym rat with a secret passion for interior design. If you need someone to help you move furniture or bench press it, I'm your guy.",
		Interests: []string{"Fitness", "Design", "Travel", "Sci-Fi"},
		Photos:    []string{"https://picsum.photos/seed/julian/600/800"},
		Location:  "Chicago, IL",
		Distance:  12.0,
	},
}

// IsSeedID reports whether id belongs to the fixed seed set.
func IsSeedID(id string) bool {
	for i := range SeedProfiles {
		if SeedProfiles[i].ID == id {
			return true
		}
	}
	return false
}
