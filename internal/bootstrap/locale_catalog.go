package bootstrap

import (
	"qrclip/internal/domain"
	"qrclip/internal/render"
)

// ListLocales returns the message catalogs the popup can switch between.
func (a *App) ListLocales() []domain.LocaleOption {
	selected := render.Catalog(a.currentSettings().Locale).Locale

	catalogs := render.Locales()
	options := make([]domain.LocaleOption, 0, len(catalogs))
	for _, m := range catalogs {
		options = append(options, domain.LocaleOption{
			ID:       m.Locale,
			Name:     m.Name,
			Selected: m.Locale == selected,
		})
	}
	return options
}
