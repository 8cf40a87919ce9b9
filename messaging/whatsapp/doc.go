// Package whatsapp implements messaging.Sender for the WhatsApp Cloud API and
// decodes the webhook notifications it delivers.
package whatsapp
