// Package analytics computes descriptive metrics over scraped posts:
// engagement distribution, content mix, brand collaborations, posting
// frequency, trend direction and a composite influence score.
//
// All analyzers are pure functions over a []Post slice. Empty input yields
// zero-valued results, never an error or a division by zero.
package analytics
