// Package upload drives the image upload protocol against the Sýna API:
// validate locally, authorize (presigned descriptor), transfer (direct to
// storage, with byte-level progress), and confirm (completion handshake).
// Rejected files produce no network traffic, and each file runs its own
// independent protocol instance; one failure never blocks the rest of a batch.
package upload
