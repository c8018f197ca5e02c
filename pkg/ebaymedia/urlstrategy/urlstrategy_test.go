package urlstrategy

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLocalStrategy(t *testing.T) {
	s := NewLocal("https://chatbay.site/")
	assert.Equal(t, "https://chatbay.site/ebay-media/img1.jpg", s.PhotoURL("img1.jpg"))

	// empty base yields root-relative URLs
	rel := NewLocal("")
	assert.Equal(t, "/ebay-media/img1.jpg", rel.PhotoURL("img1.jpg"))
}

func TestLocalStrategyEscapesNames(t *testing.T) {
	s := NewLocal("https://chatbay.site")
	assert.Equal(t, "https://chatbay.site/ebay-media/my%20photo.jpg", s.PhotoURL("my photo.jpg"))
}

func TestCDNStrategy(t *testing.T) {
	s := NewCDN("https://cdn.chatbay.site/")
	assert.Equal(t, "https://cdn.chatbay.site/img1.jpg", s.PhotoURL("img1.jpg"))
}
