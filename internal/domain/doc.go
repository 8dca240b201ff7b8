// Package domain classifies URL authorities against the canonical authority
// declared by the configured base URL.
//
// A Classifier is an explicit value: it parses the base URL once and is
// read-only afterwards, so one value can be shared by any number of
// goroutines and independent configurations never see each other's state.
package domain
