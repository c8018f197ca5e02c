// Package ebaymedia implements the chatbay listing-photo pipeline: a
// media directory of eBay listing images with metadata-stripping
// uploads, natural-order gallery listing in fixed-size groups, and
// best-effort filesystem permission repair (directories 0755, files
// 0644).
//
// The package follows a service/store split: Service holds the domain
// operations while MediaStore abstracts where the image bytes live
// (local directory, memory, S3). Construct a service with functional
// options:
//
//	store, _ := fs.New(fs.Config{BaseDir: "/var/www/ebay-media"})
//	svc, _ := ebaymedia.New(
//	    ebaymedia.WithStore(store),
//	    ebaymedia.WithURLStrategy(urlstrategy.NewLocal("https://chatbay.site")),
//	)
package ebaymedia
