package entity

type Article struct {
	Title       string `json:"title"`
	URL         string `json:"url"`
	Source      string `json:"source"`
	PublishedAt string `json:"publishedAt"`
}

type NewsSnapshot struct {
	Articles  []Article `json:"articles"`
	FetchedAt Timestamp `json:"fetchedAt"`
}
