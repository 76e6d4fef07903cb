// Package prismic is a client for headless CMS repositories speaking the
// prismic.io content API. It bootstraps the repository description, builds
// and submits search forms, and turns the returned documents into
// fragments.Container values ready to be rendered.
//
//	api, err := prismic.Get(ctx, "https://repo.prismic.io/api", prismic.WithAccessToken(token))
//	if err != nil {
//		return err
//	}
//	doc, err := api.GetByUID(ctx, "article", "hello-world")
package prismic
