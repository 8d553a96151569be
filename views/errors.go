package views

import (
	"context"
	"fmt"
	"io"

	"github.com/a-h/templ"

	aktivnatura "github.com/Juraj2254/pd-aktivnatura-blog-website"
)

// ErrorBody renders the content of an error page: status code, heading,
// explanation and a link back home.
func ErrorBody(code int, title, msg string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := fmt.Fprintf(w, `<section class="error-page">
  <p class="eyebrow">%d</p>
  <h1>%s</h1>
  <p>%s</p>
  <p><a href="/" class="button">Natrag na početnu</a></p>
</section>`, code, templ.EscapeString(title), templ.EscapeString(msg))
		return err
	})
}

// errorView places ErrorBody inside the public layout.
func (v *Views) errorView(code int, title, msg string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		body, err := templ.ToGoHTML(ctx, ErrorBody(code, title, msg))
		if err != nil {
			return err
		}
		return v.render("error.html", errorPage{
			Meta: aktivnatura.PageMeta{Title: title + " | " + v.site.Name, OGType: "website"},
			Body: body,
		}).Render(ctx, w)
	})
}
