package blog

func fixture() Dataset {
	return Dataset{
		Posts: []Post{
			{ID: 5, Title: "Vienna in autumn", Content: "Coffee.\nCake.", Image: "https://img.example/5.jpg", AuthorID: "a1", CategoryID: "travel", Tags: []string{"europe", "coffee"}},
			{ID: 3, Title: "Hooks explained", Content: "useState\nuseEffect", AuthorID: "a2", CategoryID: "tech", Tags: []string{"react", "javascript"}},
			{ID: 1, Title: "Sourdough", Content: "Flour, water, salt.", AuthorID: "ghost", CategoryID: "food", Tags: []string{}},
		},
		Authors: []Author{
			{AuthorID: "a1", Name: "Ada"},
			{AuthorID: "a2", Name: "Linus"},
		},
		Categories: []Category{
			{CategoryID: "travel", Name: "Travel"},
			{CategoryID: "tech", Name: "Technology"},
		},
	}
}

func validFields() PostFields {
	return PostFields{
		Title:      "X",
		Content:    "Body",
		AuthorID:   "a1",
		CategoryID: "tech",
		Tags:       "react, javascript,  , web-development",
	}
}
