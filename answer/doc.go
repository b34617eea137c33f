// Package answer turns a user question into a response.
//
// A Service embeds the question, searches the corpus and formats the best
// match, or a fallback answer when nothing clears the similarity threshold.
// The same Service is exposed over HTTP by NewHandler and over API Gateway
// by LambdaHandler. Error details are logged, never returned to callers.
package answer
