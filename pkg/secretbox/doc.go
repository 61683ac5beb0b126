// Package secretbox encrypts secrets that must be stored temporarily, such as
// generated attendee passwords waiting in the delivery queue.
//
// Values are sealed with AES-256-GCM using the DATA_KEY. The additional data
// binds a sealed value to the row it belongs to, so a value copied to a
// different row fails to open.
package secretbox
