// Package insights optionally enriches reports with AI-inferred profile
// category and location via the Gemini generateContent API. Without an API
// key every inference returns "Unknown" and no request is made; API failures
// degrade the same way instead of failing the scrape.
package insights
