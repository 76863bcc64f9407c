package catalog

// Default builds the Sustainable Farming course. Every display string is
// looked up in t and falls back to the English text.
func Default(t Translations) *Catalog {
	return MustNew(sustainableFarming(t))
}

func opt(id, text string) Option {
	return Option{ID: id, Text: text}
}

func correct(id, text string) Option {
	return Option{ID: id, Text: text, Correct: true}
}

func text(s string) Block {
	return TextBlock{Text: s}
}

func quiz(prompt string, options ...Option) Block {
	return QuizBlock{Question: Question{Prompt: prompt, Options: options}}
}

func question(prompt string, options ...Option) Question {
	return Question{Prompt: prompt, Options: options}
}

func sustainableFarming(t Translations) []Unit {
	l := t.Lookup
	return []Unit{
		{
			ID:          "unit_1",
			Title:       l("unit1Title", "Unit 1: Healthy Soil, Healthy Farm"),
			Description: l("unit1Desc", "Master the basics of soil health"),
			Nodes: []Node{
				{
					ID:    "u1_n1",
					Title: l("lesson_u1_n1_title", "What improves soil?"),
					Kind:  KindLesson,
					Content: []Block{
						text(l("lesson_u1_n1_text", "Soil is the foundation of your farm. Healthy soil means better yields and less disease.")),
						quiz(l("lesson_u1_n1_q", "Which practice helps soil health the most?"),
							opt("a", l("lesson_u1_n1_a", "Burning crop residue")),
							correct("b", l("lesson_u1_n1_b", "Adding organic matter (Compost)")),
							opt("c", l("lesson_u1_n1_c", "Flooding the field")),
						),
					},
				},
				{
					ID:    "u1_n2",
					Title: l("lesson_u1_n2_title", "Organic Inputs"),
					Kind:  KindLesson,
					Content: []Block{
						text(l("lesson_u1_n2_text", "Organic inputs like compost and cow dung enrich the soil with microbes.")),
						quiz(l("lesson_u1_n2_q", "What is an example of an organic input?"),
							opt("a", l("lesson_u1_n2_a", "Urea")),
							correct("b", l("lesson_u1_n2_b", "Compost/Cow Dung")),
							opt("c", l("lesson_u1_n2_c", "Pesticide")),
						),
					},
				},
				{
					ID:    "u1_n3",
					Title: l("lesson_u1_n3_title", "Quick Checks"),
					Kind:  KindQuizReview,
					Questions: []Question{
						question(l("lesson_u1_n3_q", "True or False: Burning residue is good for soil."),
							opt("a", l("lesson_u1_n3_a", "True")),
							correct("b", l("lesson_u1_n3_b", "False")),
						),
					},
				},
			},
		},
		{
			ID:          "unit_2",
			Title:       l("unit2Title", "Unit 2: Power of Organic Inputs"),
			Description: l("unit2Desc", "Reduce costs with homemade inputs"),
			Nodes: []Node{
				{
					ID:      "u2_n1",
					Title:   l("lesson_u2_n1_title", "Why use compost?"),
					Kind:    KindLesson,
					Content: []Block{text(l("lesson_u2_n1_text", "Compost improves water retention and adds nutrients slowly."))},
				},
				{
					ID:      "u2_n2",
					Title:   l("lesson_u2_n2_title", "Microbes & Fertility"),
					Kind:    KindLesson,
					Content: []Block{text(l("lesson_u2_n2_text", "Microbes interact with roots to help plants eat."))},
				},
				{
					ID:    "u2_n3",
					Title: l("lesson_u2_n3_title", "Knowledge Check"),
					Kind:  KindQuizReview,
					Questions: []Question{
						question(l("lesson_u2_n3_q", "Compost helps soil hold more..."),
							correct("a", l("lesson_u2_n3_a", "Water")),
							opt("b", l("lesson_u2_n3_b", "Heat")),
						),
					},
				},
			},
		},
		{
			ID:          "unit_3",
			Title:       l("unit3Title", "Unit 3: Mixed Cropping Mastery"),
			Description: l("unit3Desc", "Protect against pests naturally"),
			Nodes: []Node{
				{
					ID:    "u3_n1",
					Title: l("lesson_u3_n1_title", "Benefits of Mixed Cropping"),
					Kind:  KindLesson,
					Content: []Block{
						quiz(l("lesson_u3_n1_q", "Why do farmers use mixed cropping?"),
							opt("a", l("lesson_u3_n1_a", "It looks nice")),
							correct("b", l("lesson_u3_n1_b", "Reduces pests & improves soil")),
						),
					},
				},
				{
					ID:      "u3_n2",
					Title:   l("lesson_u3_n2_title", "Good Combinations"),
					Kind:    KindLesson,
					Content: []Block{text(l("lesson_u3_n2_text", "Example: Maize + Beans. Beans fix nitrogen for the maize."))},
				},
				{
					ID:    "u3_n3",
					Title: l("lesson_u3_n3_title", "Reinforcement"),
					Kind:  KindQuizReview,
					Questions: []Question{
						question(l("lesson_u3_n3_q", "What is a risk of mono-cropping?"),
							correct("a", l("lesson_u3_n3_a", "High pest risk")),
							opt("b", l("lesson_u3_n3_b", "Too much yield")),
						),
					},
				},
			},
		},
		{
			ID:          "unit_4",
			Title:       l("unit4Title", "Unit 4: Avoiding Harmful Practices"),
			Description: l("unit4Desc", "Stop wasting money and hurting land"),
			Nodes: []Node{
				{
					ID:    "u4_n1",
					Title: l("lesson_u4_n1_title", "Over-irrigation Harms"),
					Kind:  KindLesson,
					Content: []Block{
						quiz(l("lesson_u4_n1_q", "What happens when you over-irrigate?"),
							correct("a", l("lesson_u4_n1_a", "Root rot & nutrient loss")),
							opt("b", l("lesson_u4_n1_b", "Faster growth")),
						),
					},
				},
				{
					ID:      "u4_n2",
					Title:   l("lesson_u4_n2_title", "Excess Chemical Risks"),
					Kind:    KindLesson,
					Content: []Block{text(l("lesson_u4_n2_text", "Too many chemicals kill the good microbes."))},
				},
				{
					ID:      "u4_n3",
					Title:   l("lesson_u4_n3_title", "Mono-cropping"),
					Kind:    KindLesson,
					Content: []Block{text(l("lesson_u4_n3_text", "Planting the same thing every year depletes soil."))},
				},
				{
					ID:    "u4_n4",
					Title: l("lesson_u4_n4_title", "Review Challenge"),
					Kind:  KindQuizReview,
					Questions: []Question{
						question(l("lesson_u4_n4_q", "Which of these is unsustainable?"),
							opt("a", l("lesson_u4_n4_a", "Crop Rotation")),
							correct("b", l("lesson_u4_n4_b", "Heavy Chemical Use")),
						),
					},
				},
			},
		},
		{
			ID:          "unit_5",
			Title:       l("unit5Title", "Unit 5: Grand Review"),
			Description: l("unit5Desc", "Prove your knowledge"),
			Nodes: []Node{
				{
					ID:    "u5_n1",
					Title: l("lesson_u5_n1_title", "Sustainable Farming Challenge"),
					Kind:  KindQuizReview,
					Questions: []Question{
						question(l("lesson_u5_n1_q1", "Which practice reduces chemical use naturally?"),
							correct("a", l("lesson_u5_n1_q1_a", "Mixed Cropping")),
							opt("b", l("lesson_u5_n1_q1_b", "Spraying more")),
						),
						question(l("lesson_u5_n1_q2", "What is an example of an organic input?"),
							correct("a", l("lesson_u5_n1_q2_a", "Compost")),
							opt("b", l("lesson_u5_n1_q2_b", "Urea")),
						),
						question(l("lesson_u5_n1_q3", "Why check soil health?"),
							correct("a", l("lesson_u5_n1_q3_a", "To save money & improve yield")),
							opt("b", l("lesson_u5_n1_q3_b", "It is fun")),
						),
					},
				},
			},
		},
	}
}
