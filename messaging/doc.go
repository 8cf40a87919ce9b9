// Package messaging defines outbound message delivery for citescout.
//
// A Sender delivers plain text to a recipient on a chat platform. Replies
// longer than the platform limit are split with Chunk before sending.
package messaging
