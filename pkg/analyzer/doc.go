// Package analyzer turns a chatbay media gallery into eBay File
// Exchange listings. It fetches photo groups from the gallery
// endpoint, vets each photo URL, asks a vision model to describe the
// item, researches a price against sold listings, and emits CSV rows
// ready for bulk upload.
package analyzer
