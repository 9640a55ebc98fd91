package ffvl

import (
	"bytes"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/net/html"

	"github.com/jujumo/paragliding-flight-crawler/internal/index"
)

// ErrNoFlight is returned when a results page exists but carries no flight:
// the id was never assigned, or the flight was withdrawn.
var ErrNoFlight = errors.New("no flight data on page")

var (
	parenthesized = regexp.MustCompile(`\(.*?\)`)
	durationRe    = regexp.MustCompile(`(\d+)h(\d+)mn`)
)

// anchor is one <a> element: its href and its flattened text.
type anchor struct {
	href string
	text string
}

// ParseFlightPage scrapes one FFVL flight results page. requestedID is only
// a fallback: the canonical id is the one the page links to itself with.
func ParseFlightPage(data []byte, rootURL string, requestedID int) (*index.Flight, error) {
	doc, err := html.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("parsing flight page: %w", err)
	}

	anchors := collectAnchors(doc)

	// A page without a pilot link is an empty slot, not an error we retry.
	pilot, ok := firstAnchorText(anchors, rootURL+"/pilote/")
	if !ok {
		return nil, ErrNoFlight
	}

	flightID := requestedID
	volPrefix := rootURL + "/cfd/liste/vol/"
	for _, a := range anchors {
		rest, ok := strings.CutPrefix(a.href, volPrefix)
		if !ok {
			continue
		}
		if id, ok := leadingInt(rest); ok {
			flightID = id
			break
		}
	}

	date, _ := firstAnchorText(anchors, rootURL+"/cfd/liste/saison/")

	wing, ok := firstAnchorText(anchors, rootURL+"/cfd/liste/aile/")
	if ok {
		wing = strings.TrimSpace(parenthesized.ReplaceAllString(wing, ""))
	}

	var igcURL string
	for _, a := range anchors {
		if strings.HasSuffix(a.href, ".igc") {
			igcURL = a.href
			break
		}
	}

	infos := collectInfoList(doc)

	fl := &index.Flight{
		FlightID: "ffvl/" + strconv.Itoa(flightID),
		Pilot:    pilot,
		Date:     date,
		WingName: wing,
		IGC:      igcURL,
		FAIType:  infos["type de vol"],
		Takeoff:  infos["décollage"],
		Landing:  infos["atterrissage"],
	}

	if v, ok := infos["distance totale"]; ok {
		// Looks like "168.89 km b1-b2 ..."; the first token is the total.
		if fields := strings.Fields(v); len(fields) > 0 {
			if d, err := strconv.ParseFloat(fields[0], 64); err == nil {
				fl.Distance = d
			}
		}
	}
	if v, ok := infos["points"]; ok {
		if fields := strings.Fields(v); len(fields) > 0 {
			if p, err := strconv.ParseFloat(fields[0], 64); err == nil {
				fl.Points = p
			}
		}
	}
	if v, ok := infos["durée (du parcours)"]; ok {
		if m := durationRe.FindStringSubmatch(v); m != nil {
			hours, _ := strconv.Atoi(m[1])
			minutes, _ := strconv.Atoi(m[2])
			fl.Duration = hours*60 + minutes
		}
	}

	return fl, nil
}

// collectAnchors walks the DOM and returns every <a> with an href.
func collectAnchors(doc *html.Node) []anchor {
	var out []anchor
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "a" {
			if href, ok := attr(n, "href"); ok {
				out = append(out, anchor{href: href, text: strings.TrimSpace(nodeText(n))})
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return out
}

// collectInfoList extracts the "key : value" items from the first <ul> of the
// page's main section.
func collectInfoList(doc *html.Node) map[string]string {
	section := findByID(doc, "section", "block-system-main")
	if section == nil {
		return nil
	}
	list := findFirst(section, "ul")
	if list == nil {
		return nil
	}

	infos := make(map[string]string)
	for c := list.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode || c.Data != "li" {
			continue
		}
		key, value, ok := strings.Cut(nodeText(c), ":")
		if !ok {
			continue
		}
		infos[strings.TrimSpace(key)] = strings.TrimSpace(value)
	}
	return infos
}

// leadingInt parses the digit prefix of s.
func leadingInt(s string) (int, bool) {
	n := 0
	i := 0
	for ; i < len(s) && s[i] >= '0' && s[i] <= '9'; i++ {
		n = n*10 + int(s[i]-'0')
	}
	if i == 0 {
		return 0, false
	}
	return n, true
}

func firstAnchorText(anchors []anchor, hrefPrefix string) (string, bool) {
	for _, a := range anchors {
		if strings.HasPrefix(a.href, hrefPrefix) {
			return a.text, true
		}
	}
	return "", false
}

func attr(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

// nodeText concatenates the text descendants of n.
func nodeText(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return sb.String()
}

func findByID(n *html.Node, element, id string) *html.Node {
	if n.Type == html.ElementNode && n.Data == element {
		if v, ok := attr(n, "id"); ok && v == id {
			return n
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findByID(c, element, id); found != nil {
			return found
		}
	}
	return nil
}

func findFirst(n *html.Node, element string) *html.Node {
	if n.Type == html.ElementNode && n.Data == element {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findFirst(c, element); found != nil {
			return found
		}
	}
	return nil
}
