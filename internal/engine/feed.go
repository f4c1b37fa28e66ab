package engine

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html/charset"
)

// XML namespaces recognized in YouTube feeds. Elements outside them are ignored.
const (
	NamespaceAtom    = "http://www.w3.org/2005/Atom"
	NamespaceYouTube = "http://www.youtube.com/xml/schemas/2015"
	NamespaceMedia   = "http://search.yahoo.com/mrss/"
)

// atomFeed represents a YouTube Atom feed structure. Repeated fields are slices
// so the first occurrence in document order wins.
type atomFeed struct {
	Titles  []string     `xml:"http://www.w3.org/2005/Atom title"`
	Updated []string     `xml:"http://www.w3.org/2005/Atom updated"`
	Authors []atomAuthor `xml:"http://www.w3.org/2005/Atom author"`
	Entries []atomEntry  `xml:"http://www.w3.org/2005/Atom entry"`
}

type atomAuthor struct {
	Names []string `xml:"http://www.w3.org/2005/Atom name"`
}

type atomEntry struct {
	VideoIDs  []string     `xml:"http://www.youtube.com/xml/schemas/2015 videoId"`
	Titles    []string     `xml:"http://www.w3.org/2005/Atom title"`
	Published []string     `xml:"http://www.w3.org/2005/Atom published"`
	Updated   []string     `xml:"http://www.w3.org/2005/Atom updated"`
	Links     []atomLink   `xml:"http://www.w3.org/2005/Atom link"`
	Groups    []mediaGroup `xml:"http://search.yahoo.com/mrss/ group"`
}

type atomLink struct {
	Rel  string `xml:"rel,attr"`
	Href string `xml:"href,attr"`
}

type mediaGroup struct {
	Thumbnails   []mediaThumbnail `xml:"http://search.yahoo.com/mrss/ thumbnail"`
	Descriptions []string         `xml:"http://search.yahoo.com/mrss/ description"`
}

type mediaThumbnail struct {
	URL string `xml:"url,attr"`
}

// ParseFeed parses YouTube's Atom XML feed into a FeedDocument.
// Malformed XML yields *ParseError; missing elements become empty strings.
func ParseFeed(data []byte) (*FeedDocument, error) {
	dec := xml.NewDecoder(bytes.NewReader(data))
	dec.CharsetReader = charset.NewReaderLabel

	var feed atomFeed
	if err := dec.Decode(&feed); err != nil {
		if errors.Is(err, io.EOF) {
			err = errors.New("empty document")
		}
		return nil, &ParseError{Format: "feed", Err: err}
	}
	if err := expectEOF(dec); err != nil {
		return nil, &ParseError{Format: "feed", Err: err}
	}

	doc := &FeedDocument{
		Title:   first(feed.Titles),
		Updated: first(feed.Updated),
		Items:   make([]FeedItem, 0, len(feed.Entries)),
	}
	if len(feed.Authors) > 0 {
		doc.Author = first(feed.Authors[0].Names)
	}

	for _, entry := range feed.Entries {
		doc.Items = append(doc.Items, FeedItem{
			VideoID:     first(entry.VideoIDs),
			Title:       first(entry.Titles),
			Published:   first(entry.Published),
			Updated:     first(entry.Updated),
			Link:        entry.alternateLink(),
			Thumbnail:   entry.thumbnail(),
			Description: strings.TrimSpace(entry.description()),
		})
	}
	return doc, nil
}

func (e atomEntry) alternateLink() string {
	for _, l := range e.Links {
		if l.Rel == "alternate" {
			return l.Href
		}
	}
	return ""
}

func (e atomEntry) thumbnail() string {
	for _, g := range e.Groups {
		if len(g.Thumbnails) > 0 {
			return g.Thumbnails[0].URL
		}
	}
	return ""
}

func (e atomEntry) description() string {
	for _, g := range e.Groups {
		if len(g.Descriptions) > 0 {
			return g.Descriptions[0]
		}
	}
	return ""
}

// expectEOF rejects anything but comments, processing instructions and
// whitespace after the root element.
func expectEOF(dec *xml.Decoder) error {
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			return fmt.Errorf("junk after document element: <%s>", t.Name.Local)
		case xml.CharData:
			if len(bytes.TrimSpace(t)) > 0 {
				return errors.New("junk after document element")
			}
		}
	}
}

func first(values []string) string {
	if len(values) == 0 {
		return ""
	}
	return values[0]
}
