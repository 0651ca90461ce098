package main

// seedBooks returns sample books in the shape of a create request body.
func seedBooks() []map[string]any {
	return []map[string]any{
		{"title": "The Go Programming Language", "author": "Alan A. A. Donovan", "year": 2015},
		{"title": "Introducing Go", "author": "Caleb Doxsey", "year": 2016},
		{"title": "Concurrency in Go", "author": "Katherine Cox-Buday", "year": 2017},
		{"title": "Go in Practice", "author": "Matt Butcher", "year": 2016},
		{"title": "The Pragmatic Programmer", "author": "Andrew Hunt", "year": 1999},
		{"title": "Structure and Interpretation of Computer Programs", "author": "Harold Abelson", "year": 1985},
		{"title": "Don Quixote", "author": "Miguel de Cervantes", "year": 1605},
		{"title": "Beowulf", "author": "Unknown"},
	}
}
