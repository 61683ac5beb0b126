// Package realtime pushes live survey events to admins and attendees over
// WebSocket.
//
// Frames are JSON objects {"event": ..., "data": ...}. A client sends
// join_conference {"conferenceId": N} to enter a conference room and is
// answered with joined or error; leave_conference leaves it. The server
// broadcasts new_response, stats_update, survey_activated and
// survey_deactivated to the room of the affected conference.
package realtime
