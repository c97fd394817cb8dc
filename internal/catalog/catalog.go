// Package catalog holds the static fallback book table served whenever the
// generative capability is unavailable or returns unusable output.
package catalog

import (
	"github.com/bookcrews/community-platform/internal/model"
)

// PageSize is the number of books per page.
const PageSize = 5

var books = []model.BookRecommendation{
	{Title: "The Midnight Library", Author: "Matt Haig", Genre: "Fiction", Description: "Between life and death there is a library where every book is a different life you could have lived.", Rating: 4.2, Pages: 304, Year: 2020},
	{Title: "Project Hail Mary", Author: "Andy Weir", Genre: "Science Fiction", Description: "A lone astronaut wakes up on a spaceship with no memory of how he got there, tasked with saving humanity.", Rating: 4.5, Pages: 476, Year: 2021},
	{Title: "Tomorrow, and Tomorrow, and Tomorrow", Author: "Gabrielle Zevin", Genre: "Fiction", Description: "Two friends build a video game empire across three decades of love, art, and betrayal.", Rating: 4.2, Pages: 401, Year: 2022},
	{Title: "Atomic Habits", Author: "James Clear", Genre: "Self-Help", Description: "A practical framework for building good habits and breaking bad ones through tiny changes.", Rating: 4.4, Pages: 320, Year: 2018},
	{Title: "The Seven Husbands of Evelyn Hugo", Author: "Taylor Jenkins Reid", Genre: "Historical Fiction", Description: "An aging Hollywood icon finally tells the truth about her glamorous and scandalous life.", Rating: 4.5, Pages: 400, Year: 2017},
	{Title: "Klara and the Sun", Author: "Kazuo Ishiguro", Genre: "Literary Fiction", Description: "An Artificial Friend observes the world from a store window, hoping a customer will choose her.", Rating: 4.1, Pages: 303, Year: 2021},
	{Title: "Educated", Author: "Tara Westover", Genre: "Memoir", Description: "A woman raised by survivalists in the Idaho mountains earns a PhD from Cambridge.", Rating: 4.5, Pages: 334, Year: 2018},
	{Title: "The Song of Achilles", Author: "Madeline Miller", Genre: "Mythology", Description: "A retelling of the Iliad through the eyes of Patroclus, bound to Achilles by love and fate.", Rating: 4.4, Pages: 378, Year: 2011},
	{Title: "Dune", Author: "Frank Herbert", Genre: "Science Fiction", Description: "On the desert planet Arrakis, a young noble becomes the center of a galactic struggle for spice.", Rating: 4.3, Pages: 688, Year: 1965},
	{Title: "Circe", Author: "Madeline Miller", Genre: "Mythology", Description: "The banished witch of Aiaia discovers her power across centuries of gods and mortals.", Rating: 4.3, Pages: 393, Year: 2018},
	{Title: "The House in the Cerulean Sea", Author: "TJ Klune", Genre: "Fantasy", Description: "A caseworker for magical youth discovers a found family on a curious island.", Rating: 4.4, Pages: 394, Year: 2020},
	{Title: "A Little Life", Author: "Hanya Yanagihara", Genre: "Literary Fiction", Description: "Four college friends in New York, and the unspeakable past one of them carries.", Rating: 4.3, Pages: 720, Year: 2015},
	{Title: "The Silent Patient", Author: "Alex Michaelides", Genre: "Thriller", Description: "A famous painter shoots her husband and never speaks again; a psychotherapist is determined to find out why.", Rating: 4.1, Pages: 336, Year: 2019},
	{Title: "Pachinko", Author: "Min Jin Lee", Genre: "Historical Fiction", Description: "Four generations of a Korean family in Japan, bound by sacrifice and survival.", Rating: 4.3, Pages: 496, Year: 2017},
	{Title: "The Name of the Wind", Author: "Patrick Rothfuss", Genre: "Fantasy", Description: "A legendary wizard recounts how he grew from a troupe orphan into the most notorious man alive.", Rating: 4.5, Pages: 662, Year: 2007},
	{Title: "Sapiens", Author: "Yuval Noah Harari", Genre: "History", Description: "A sweeping history of humankind, from the cognitive revolution to the age of algorithms.", Rating: 4.4, Pages: 443, Year: 2011},
	{Title: "Normal People", Author: "Sally Rooney", Genre: "Fiction", Description: "Two Irish teenagers weave in and out of each other's lives through school and university.", Rating: 3.9, Pages: 266, Year: 2018},
	{Title: "The Martian", Author: "Andy Weir", Genre: "Science Fiction", Description: "An astronaut stranded on Mars engineers his way to survival one problem at a time.", Rating: 4.4, Pages: 369, Year: 2014},
	{Title: "Where the Crawdads Sing", Author: "Delia Owens", Genre: "Mystery", Description: "A girl raised alone in the North Carolina marsh becomes a suspect in a murder investigation.", Rating: 4.4, Pages: 384, Year: 2018},
	{Title: "The Alchemist", Author: "Paulo Coelho", Genre: "Fiction", Description: "An Andalusian shepherd follows omens across the desert in search of a treasure and his personal legend.", Rating: 3.9, Pages: 208, Year: 1988},
}

// Size returns the number of books in the catalog.
func Size() int {
	return len(books)
}

// PageCount returns the number of fallback pages.
func PageCount() int {
	return (len(books) + PageSize - 1) / PageSize
}

// Page returns the page-th slice of the catalog, page size 5, wrapping
// around so that any positive page number always yields a non-empty slice.
// The final page is short when the catalog size is not a multiple of 5.
func Page(page int) []model.BookRecommendation {
	if page < 1 {
		page = 1
	}
	start := ((page - 1) % PageCount()) * PageSize
	end := start + PageSize
	if end > len(books) {
		end = len(books)
	}
	out := make([]model.BookRecommendation, end-start)
	copy(out, books[start:end])
	return out
}

// Detail returns a detail view of the first catalog entry whose title
// matches, or a generic entry built from the requested title.
func Detail(title string) *model.BookDetail {
	for _, b := range books {
		if b.Title == title {
			return &model.BookDetail{
				Title:       b.Title,
				Author:      b.Author,
				Genre:       b.Genre,
				Description: b.Description,
				Rating:      b.Rating,
				Pages:       b.Pages,
				Year:        b.Year,
			}
		}
	}
	return &model.BookDetail{
		Title:       title,
		Description: "Details for this title are not available right now.",
	}
}
