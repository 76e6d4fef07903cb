package fragments

import (
	"fmt"
	"strconv"

	jsoniter "github.com/json-iterator/go"
)

type wireDimensions struct {
	Width  jsoniter.RawMessage `json:"width"`
	Height jsoniter.RawMessage `json:"height"`
}

type wireView struct {
	URL        string              `json:"url"`
	Alt        string              `json:"alt"`
	Copyright  string              `json:"copyright"`
	Label      string              `json:"label"`
	Dimensions wireDimensions      `json:"dimensions"`
	LinkTo     jsoniter.RawMessage `json:"linkTo"`
}

// View is one rendition of an image.
type View struct {
	URL       string
	Width     int
	Height    int
	Alt       string
	Copyright string
	Label     string
	LinkTo    Link
}

func parseView(r *Registry, raw []byte) (*View, error) {
	var w wireView
	if err := json.Unmarshal(raw, &w); err != nil {
		return nil, fmt.Errorf("image view: %w", err)
	}
	return &View{
		URL:       w.URL,
		Width:     int(rawInt(w.Dimensions.Width)),
		Height:    int(rawInt(w.Dimensions.Height)),
		Alt:       w.Alt,
		Copyright: w.Copyright,
		Label:     w.Label,
		LinkTo:    parseLink(r, w.LinkTo),
	}, nil
}

// Ratio is width over height, or 0 for a view without height.
func (v *View) Ratio() float64 {
	if v.Height == 0 {
		return 0
	}
	return float64(v.Width) / float64(v.Height)
}

// AsHTML renders the view as an <img>, wrapped in a link when the view has
// one.
func (v *View) AsHTML(resolver LinkResolver) string {
	requireResolver(resolver)
	img := `<img src="` + escapeAttr(v.URL) + `" alt="` + escapeAttr(v.Alt) +
		`" width="` + strconv.Itoa(v.Width) + `" height="` + strconv.Itoa(v.Height) + `" />`
	if v.LinkTo == nil {
		return img
	}
	target := ""
	if wl, ok := v.LinkTo.(*WebLink); ok {
		target = targetAttr(wl.Target)
	}
	return `<a href="` + escapeAttr(v.LinkTo.Resolve(resolver)) + `"` + target + `>` + img + `</a>`
}

// Image is an image field: a main view plus named alternative views.
type Image struct {
	Main   *View
	Views  map[string]*View
	LinkTo Link
}

func newImage(r *Registry, value []byte) (Fragment, error) {
	var w struct {
		Main   jsoniter.RawMessage            `json:"main"`
		Views  map[string]jsoniter.RawMessage `json:"views"`
		LinkTo jsoniter.RawMessage            `json:"linkTo"`
	}
	if err := json.Unmarshal(value, &w); err != nil {
		return nil, fmt.Errorf("image: %w", err)
	}
	main, err := parseView(r, w.Main)
	if err != nil {
		return nil, err
	}
	img := &Image{
		Main:   main,
		Views:  make(map[string]*View, len(w.Views)),
		LinkTo: parseLink(r, w.LinkTo),
	}
	if main.LinkTo == nil {
		main.LinkTo = img.LinkTo
	}
	for name, raw := range w.Views {
		v, err := parseView(r, raw)
		if err != nil {
			return nil, fmt.Errorf("view %s: %w", name, err)
		}
		img.Views[name] = v
	}
	return img, nil
}

// View returns the named view; "main" is the main view.
func (i *Image) View(name string) *View {
	if name == "main" {
		return i.Main
	}
	return i.Views[name]
}

// AsHTML implements Fragment by rendering the main view.
func (i *Image) AsHTML(resolver LinkResolver, _ HTMLSerializer) string {
	return i.Main.AsHTML(resolver)
}
