package contract

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Line-classification patterns. These are best-effort heuristics over pasted
// contract text, not a grammar; the priority order (unlimited, then numeric
// limit, then location, then plain text) is load-bearing because later rules
// only see lines the earlier ones rejected.
var (
	unlimitedPattern = regexp.MustCompile(`(?i)unlimited`)
	limitPattern     = regexp.MustCompile(`(?i)\d+\s*(tickets|hours|days|months|users|items)`)
	limitValue       = regexp.MustCompile(`(?i)(\d+)\s*(\w+)`)
	limitStrip       = regexp.MustCompile(`(?i)\d+\s*\w+`)
	locationPattern  = regexp.MustCompile(`(?i)remote|on-site`)
)

// ParseItems converts pasted plain text into an ordered item list, one item
// per non-blank line. It is a pure function; malformed lines are never an
// error, they just classify as plain text.
func ParseItems(text string) []Item {
	return ParseItemsAppend(text, nil)
}

// ParseItemsAppend parses like ParseItems but guarantees the generated ids do
// not collide with those of existing, the item list the result will be
// appended to.
func ParseItemsAppend(text string, existing []Item) []Item {
	taken := make(map[string]struct{}, len(existing))
	for _, item := range existing {
		taken[item.ID] = struct{}{}
	}

	batch := time.Now().UnixMilli()
	items := make([]Item, 0)
	for _, raw := range strings.Split(text, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		item := classifyLine(line)
		item.ID = nextItemID(batch, len(items), taken)
		taken[item.ID] = struct{}{}
		items = append(items, item)
	}
	return items
}

// classifyLine applies the heuristics in priority order; first match wins
func classifyLine(line string) Item {
	if unlimitedPattern.MatchString(line) {
		return Item{
			Text: strings.TrimSpace(unlimitedPattern.ReplaceAllString(line, "")),
			Type: ItemTypeUnlimited,
		}
	}

	if limitPattern.MatchString(line) {
		value := 0
		if m := limitValue.FindStringSubmatch(line); m != nil {
			value, _ = strconv.Atoi(m[1])
		}
		// Only the first number+word run is stripped from the text,
		// matching how pasted lines like "10 tickets per month" keep
		// their trailing qualifier.
		text := line
		if loc := limitStrip.FindStringIndex(line); loc != nil {
			text = line[:loc[0]] + line[loc[1]:]
		}
		return Item{
			Text:  strings.TrimSpace(text),
			Type:  ItemTypeLimit,
			Value: value,
		}
	}

	if locationPattern.MatchString(line) {
		lower := strings.ToLower(line)
		loc := LocationBoth
		hasRemote := strings.Contains(lower, "remote")
		hasOnSite := strings.Contains(lower, "on-site")
		if hasRemote && !hasOnSite {
			loc = LocationRemote
		} else if hasOnSite && !hasRemote {
			loc = LocationOnSite
		}
		return Item{
			Text: strings.TrimSpace(locationPattern.ReplaceAllString(line, "")),
			Type: ItemTypeLocation,
			Loc:  loc,
		}
	}

	return Item{Text: line, Type: ItemTypeText}
}

// nextItemID generates a batch-unique, hyphen-free id. Item ids must never
// contain characters that would confuse the ItemRef encoding.
func nextItemID(batch int64, index int, taken map[string]struct{}) string {
	id := fmt.Sprintf("item%dx%d", batch, index)
	for n := 0; ; n++ {
		candidate := id
		if n > 0 {
			candidate = fmt.Sprintf("%sr%d", id, n)
		}
		if _, exists := taken[candidate]; !exists {
			return candidate
		}
	}
}
