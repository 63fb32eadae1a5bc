// Package domain defines core data models, interfaces and the error taxonomy
// shared across the app. It contains plain types (wire/state), contracts
// (interfaces) and sentinel errors only.
package domain
