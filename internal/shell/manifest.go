package shell

import (
	"encoding/json"
	"fmt"

	"github.com/tdewolff/minify/v2"
)

type manifestIcon struct {
	Src   string `json:"src"`
	Sizes string `json:"sizes"`
	Type  string `json:"type"`
}

type shareParams struct {
	Title string `json:"title"`
	Text  string `json:"text"`
	URL   string `json:"url"`
}

type shareTarget struct {
	Action string      `json:"action"`
	Method string      `json:"method"`
	Params shareParams `json:"params"`
}

type webManifest struct {
	Name            string         `json:"name"`
	ShortName       string         `json:"short_name"`
	StartURL        string         `json:"start_url"`
	Scope           string         `json:"scope"`
	Display         string         `json:"display"`
	BackgroundColor string         `json:"background_color"`
	ThemeColor      string         `json:"theme_color"`
	Icons           []manifestIcon `json:"icons"`
	ShareTarget     shareTarget    `json:"share_target"`
}

func renderManifest(m *minify.M, title string) ([]byte, error) {
	doc := webManifest{
		Name:            title,
		ShortName:       "Maps Export",
		StartURL:        "/",
		Scope:           "/",
		Display:         "standalone",
		BackgroundColor: "#eff6ff",
		ThemeColor:      "#2563eb",
		ShareTarget: shareTarget{
			Action: SharePath,
			Method: "GET",
			Params: shareParams{Title: "title", Text: "text", URL: "url"},
		},
	}
	for _, is := range iconSpecs {
		doc.Icons = append(doc.Icons, manifestIcon{
			Src:   is.path,
			Sizes: fmt.Sprintf("%dx%d", is.size, is.size),
			Type:  is.contentType,
		})
	}

	raw, err := json.Marshal(doc)
	if err != nil {
		return nil, err
	}
	return m.Bytes("application/json", raw)
}
