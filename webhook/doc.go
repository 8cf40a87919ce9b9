// Package webhook receives WhatsApp Cloud API notifications over HTTP.
//
// GET requests answer the subscription handshake. POST requests carry
// message notifications; each text message is handed to a Dispatcher and
// the request is acknowledged at once, without waiting for the reply.
package webhook
