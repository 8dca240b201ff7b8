// Package exclude filters issues against user exclusion rules and disabled
// rule ids.
//
// An exclusion rule is a conjunction of the fields it sets. A rule that
// sets no field matches nothing. Disabling a rule id and excluding single
// issue instances are separate filters.
package exclude
