// internal/game/words.go
package game

import "math/rand"

// crossCluesWords is the pool the 5x5 board draws from. Simple nouns and
// concepts that combine in interesting ways.
var crossCluesWords = []string{
	// Animals
	"dog", "cat", "bird", "fish", "bear", "lion", "elephant", "horse", "monkey", "snake",
	"rabbit", "tiger", "wolf", "fox", "mouse", "pig", "cow", "sheep", "chicken", "duck",

	// Nature
	"tree", "flower", "mountain", "river", "ocean", "sun", "moon", "star", "cloud", "rain",
	"snow", "fire", "water", "earth", "wind", "forest", "desert", "island", "beach", "garden",

	// Objects
	"book", "phone", "car", "house", "chair", "table", "door", "window", "key", "clock",
	"mirror", "lamp", "bed", "couch", "computer", "camera", "guitar", "piano", "ball", "ring",

	// Food & Drink
	"apple", "bread", "cheese", "coffee", "pizza", "cake", "candy", "ice cream", "wine", "beer",
	"chocolate", "banana", "orange", "egg", "milk", "honey", "salt", "pepper", "rice", "pasta",

	// Places
	"school", "hospital", "bank", "church", "museum", "theater", "restaurant", "airport", "hotel", "park",
	"library", "prison", "castle", "farm", "factory", "office", "stadium", "mall", "zoo", "circus",

	// Concepts
	"love", "money", "time", "music", "art", "war", "peace", "dream", "fear", "hope",
	"family", "friend", "king", "queen", "baby", "doctor", "teacher", "police", "soldier", "ghost",

	// Activities
	"dance", "sport", "game", "party", "wedding", "birthday", "travel", "work", "sleep", "cook",

	// Colors & Qualities
	"red", "blue", "green", "gold", "silver", "black", "white", "hot", "cold", "fast",

	// Body
	"heart", "brain", "hand", "eye", "mouth", "hair", "blood", "bone", "skin", "muscle",

	// Technology & Modern
	"robot", "rocket", "internet", "video", "magic", "science", "space", "planet", "alien", "zombie",
}

// pickBoardWords draws n distinct words from the pool.
func pickBoardWords(n int) []string {
	idx := rand.Perm(len(crossCluesWords))
	words := make([]string, n)
	for i := 0; i < n; i++ {
		words[i] = crossCluesWords[idx[i]]
	}
	return words
}
