package analyzer

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

// FullHeaders is the eBay File Exchange header row for clothing and
// collectibles listings, including the item-specific C: columns.
var FullHeaders = []string{
	"Action(SiteID=US|Country=US|Currency=USD|Version=1193)",
	"Custom label (SKU)", "Category ID", "Category name", "Title",
	"Relationship", "Relationship details", "Schedule Time", "P:UPC", "P:EPID",
	"Start price", "Quantity", "Item photo URL", "VideoID", "Condition ID",
	"Description", "Format", "Duration", "Buy It Now price",
	"Best Offer Enabled", "Best Offer Auto Accept Price", "Minimum Best Offer Price",
	"Immediate pay required", "Location", "Shipping service 1 option",
	"Shipping service 1 cost", "Shipping service 1 priority", "Shipping service 2 option",
	"Shipping service 2 cost", "Shipping service 2 priority", "Max dispatch time",
	"Returns accepted option", "Returns within option", "Refund option",
	"Return shipping cost paid by", "Shipping profile name", "Return profile name",
	"Payment profile name", "ProductCompliancePolicyID", "Regional ProductCompliancePolicies",
	"C:Style", "C:Brand", "C:Size Type", "C:Color", "C:Department", "C:Size", "C:Type",
	"C:Features", "C:Character", "C:Theme", "C:Material", "C:Fabric Type", "C:Pattern", "C:Vintage",
}

// CategoryMap maps a vision category guess to an eBay category ID
var CategoryMap = map[string]string{
	"panties": "11507", "underwear": "11507", "lingerie": "11514",
	"t-shirt": "15687", "shirt": "15687", "tee": "15687",
	"sweatshirt": "155226", "hoodie": "155226",
	"jacket": "57988", "jeans": "11483", "shorts": "15690", "pants": "57989",
	"bag": "169291", "tote": "169291", "patch": "156521", "button": "10960",
	"hat": "163571", "cap": "163571", "magazine": "280", "book": "261186",
}

// fallbackCategoryID is used when the guess matches nothing (shirts).
const fallbackCategoryID = "15687"

// ConditionIDMap maps listing conditions to eBay condition IDs
var ConditionIDMap = map[string]int{
	"new":      1000,
	"preowned": 3000,
	"parts":    7000,
}

// DefaultCondition is applied when no condition is requested
const DefaultCondition = "preowned"

// maxTitleLen is one under eBay's 80-character title cap
const maxTitleLen = 79

// ListingDefaults holds seller-account values stamped into every row
type ListingDefaults struct {
	Location        string
	ShippingProfile string
	ReturnProfile   string
	PaymentProfile  string
}

// ClampTitle trims surrounding whitespace and cuts the title to the
// eBay limit. The cut counts characters, not bytes, so a multibyte
// rune is never split.
func ClampTitle(title string) string {
	title = strings.TrimSpace(title)
	if utf8.RuneCountInString(title) > maxTitleLen {
		runes := []rune(title)
		title = string(runes[:maxTitleLen])
	}
	return title
}

// PickCategoryID resolves a category guess to an eBay category ID
func PickCategoryID(guess string) string {
	if id, ok := CategoryMap[strings.ToLower(strings.TrimSpace(guess))]; ok {
		return id
	}
	return fallbackCategoryID
}

// ConditionID resolves a condition name to its eBay condition ID,
// defaulting to pre-owned.
func ConditionID(condition string) int {
	if id, ok := ConditionIDMap[strings.ToLower(strings.TrimSpace(condition))]; ok {
		return id
	}
	return ConditionIDMap[DefaultCondition]
}

// BuildDescriptionHTML produces the listing description body
func BuildDescriptionHTML(title, desc string) string {
	return fmt.Sprintf("<p><center><h4>%s</h4></center></p><p>%s</p>", title, desc)
}

// ScheduleTime returns tomorrow 22:00 America/New_York expressed in
// UTC, the format File Exchange expects for Schedule Time.
func ScheduleTime(now time.Time) string {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		loc = time.FixedZone("EST", -5*3600)
	}
	next := now.In(loc).AddDate(0, 0, 1)
	target := time.Date(next.Year(), next.Month(), next.Day(), 22, 0, 0, 0, loc)
	return target.UTC().Format("2006-01-02T15:04:05Z")
}

// PipeJoin joins photo URLs the way File Exchange wants them
func PipeJoin(urls []string) string {
	return strings.Join(urls, "|")
}

// isVintage reports whether the era marks the item as vintage for the
// C:Vintage column.
func isVintage(yearOrStyle string) bool {
	lower := strings.ToLower(yearOrStyle)
	return strings.Contains(lower, "90") || strings.Contains(lower, "y2k")
}

// RowFromListing builds one File Exchange row, padded to the header
// length.
func RowFromListing(desc *Description, photos []string, condition string, price float64, scheduleAt string, defaults ListingDefaults) []string {
	if desc == nil {
		desc = &Description{}
	}
	title := ClampTitle(desc.Title)
	categoryID := PickCategoryID(desc.CategoryGuess)

	vintage := ""
	if isVintage(desc.YearOrStyle) {
		vintage = "Yes"
	}

	row := []string{
		"Add", "", categoryID, "", title, "", "", scheduleAt, "", "",
		fmt.Sprintf("%.2f", price), "1", PipeJoin(photos), "", fmt.Sprintf("%d", ConditionID(condition)),
		BuildDescriptionHTML(title, desc.ShortDescription), "FixedPrice", "GTC", "",
		"", "", "", "", defaults.Location, "", "", "", "", "", "", "2",
		"", "", "", "", defaults.ShippingProfile, defaults.ReturnProfile, defaults.PaymentProfile, "", "",
		desc.YearOrStyle, desc.Brand, "", desc.Color, "", desc.Size, desc.CategoryGuess,
		"", "", "", desc.Material, "", "", vintage,
	}

	for len(row) < len(FullHeaders) {
		row = append(row, "")
	}
	return row[:len(FullHeaders)]
}

// WriteCSV renders the header row plus listing rows as CSV text
func WriteCSV(rows [][]string) (string, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(FullHeaders); err != nil {
		return "", err
	}
	for _, row := range rows {
		if err := w.Write(row); err != nil {
			return "", err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// ExportFileName returns a timestamped CSV file name
func ExportFileName(now time.Time) string {
	return "chatbay-ebay-export-" + now.UTC().Format("20060102-150405") + ".csv"
}
