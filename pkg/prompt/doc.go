// Package prompt asks for a territory on the terminal. A Driver abstracts the
// prompts; SurveyDriver is the interactive implementation.
package prompt
