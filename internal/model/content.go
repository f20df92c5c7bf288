package model

type Unit struct {
	Name string `json:"name"`
	Icon string `json:"icon"`
}

type Course struct {
	Name string `json:"name"`
	Icon string `json:"icon"`
}

type PracticeQuestion struct {
	Question    string   `json:"question"`
	Explanation string   `json:"explanation"`
	Incorrect   []string `json:"incorrect"`
	Correct     string   `json:"correct"`
}

type Person struct {
	Name        string        `json:"name"`
	Position    string        `json:"position"`
	Description string        `json:"description"`
	Likes       []Interest    `json:"likes"`
	Info        []ContactInfo `json:"info"`
}

type Interest struct {
	Name string `json:"name"`
	Icon string `json:"icon"`
}

type ContactInfo struct {
	Icon string `json:"icon"`
	Text string `json:"text"`
}

type Blog struct {
	Title       string        `json:"title"`
	Description string        `json:"description"`
	Author      Person        `json:"author"`
	Sections    []BlogSection `json:"sections"`
}

type BlogSection struct {
	Header     string   `json:"header"`
	Paragraphs []string `json:"paragraphs"`
}
