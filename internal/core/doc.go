// Package core holds the training scheduler's domain logic: feed parsing,
// entity mapping, school lookup, trainer assignment and request
// submission.
//
// Nothing in this package knows about HTTP or where feeds come from. The
// web layer and cmd/server drive it through [Service]; tests can drive the
// pure functions directly.
//
// # Data Flow
//
// Three feeds (schools, resource persons, topics) are fetched through a
// [FeedSource] and turned into an [EntityStore]:
//
//  1. [LoadEntities] fetches all feeds concurrently
//  2. [Parser.Parse] turns the tabular feeds into [Record] values
//  3. [ToSchools], [ToResourcePersons] and [ToTopics] build typed collections
//  4. [Service] publishes the store atomically; a failed load never
//     replaces a good one
//
// A submission then runs against the current store:
//
//  1. [FindByCode] resolves the school (case and whitespace insensitive)
//  2. the date and topic must be present
//  3. [Engine.Assign] fills the primary and secondary slots
//
// # Assignment Tiers
//
// The primary slot draws from trainers whose status contains "conducted",
// the secondary from "attended". Each slot first takes the first trainer
// for the topic in the school's district (Tier A); failing that it hands
// every qualified trainer to [Engine.Nearest], which by default picks the
// first one (Tier B). An empty slot holds [NotAvailable], which is a valid
// result and not an error.
//
// # Error Handling
//
// Request failures are [*ValidationError] values wrapping one sentinel
// from errors.go. [MapError] turns any error into a [UserMessage] with a
// support code (DATA*, REQ*, NET*, RATE001, ERR000).
package core
