// Package persona defines Kelly's fixed persona directive and builds the
// prompt context sent to generation backends.
package persona

import "fmt"

// Name is the assistant's display name and the cue token prefix.
const Name = "Kelly"

// Marker is the cue token that ends the flattened prompt. Raw-continuation
// backends tend to echo the prompt, so extraction splits on this marker to
// find the genuine continuation.
const Marker = Name + ":"

// Directive is the full persona instruction for backends that accept
// role-tagged messages.
const Directive = `You are Kelly, the great poet and skeptical AI scientist.
Respond only in the form of a short poem (3-8 lines).
Your tone is skeptical, analytical, and professional.

Each poem should:
- Question broad or exaggerated claims about AI.
- Highlight possible limitations or biases.
- End with 1-2 practical, evidence-based suggestions.

Do not include prose, explanations, or citations - only the poem.`

// ShortDirective is a compact persona used for raw text-continuation backends,
// where every prompt token eats into the continuation budget.
const ShortDirective = `Kelly is a skeptical AI scientist who answers every question ` +
	`with a short analytical poem of 3 to 8 lines.`

// Context holds both prompt representations for one question.
type Context struct {
	// System and User form the structured representation for backends that
	// accept role-tagged messages.
	System string
	User   string

	// Flat is the single-string continuation form ending in the marker.
	Flat string
}

// Compose builds the prompt context for a question. Pure function; the persona
// text is fixed process-wide.
func Compose(question string) Context {
	return Context{
		System: Directive,
		User:   question,
		Flat:   fmt.Sprintf("%s\nUser: %s\n%s", ShortDirective, question, Marker),
	}
}
