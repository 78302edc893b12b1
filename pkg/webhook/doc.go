// Package webhook delivers notifications to an external HTTP endpoint.
//
// Sender implements messaging.Sender, so it can sit next to the in-process
// hub in a messaging.MultiSender. Each notification is POSTed as the JSON
// envelope {id, group, method, payload, sent_at}. When a secret is configured
// the request carries X-Entityhub-Timestamp and X-Entityhub-Signature, the
// hex HMAC-SHA256 of "{timestamp}.{body}"; receivers check it with Verify.
package webhook
