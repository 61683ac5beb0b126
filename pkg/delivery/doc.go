// Package delivery emails generated attendee passwords in the background.
//
// Registration calls [Service.Schedule], which stores the password sealed
// with the data key in the password_queue table and queues the row id for
// later. A [Worker] claims due ids one at a time, opens the password, renders
// the credentials email and sends it. Failures are retried with exponential
// backoff until the configured number of attempts is used up.
package delivery
