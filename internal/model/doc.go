// Package model defines the data shared by every stage of an audit.
//
// The main types are:
//   - PageRecord: facts extracted from one HTML file
//   - SiteIndex: all pages plus the duplicate multimaps and the file set
//   - Issue: one triggered rule instance with a stable fingerprint
//   - ExclusionRule: a user-declared suppression
//   - Audit and AuditResult: the working state and final outcome of a run
//
// The rule catalog (id to name, category, severity and fix hint) also lives
// here so that issues can be built anywhere without importing the rules.
package model
