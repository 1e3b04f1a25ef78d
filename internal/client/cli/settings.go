package cli

import (
	"context"
)

func (a *App) Lang(ctx context.Context, args []string) error {
	if len(args) > 0 {
		if err := a.prefs.SetLanguage(ctx, args[0]); err != nil {
			return err
		}
	}
	lang, err := a.prefs.Language(ctx)
	if err != nil {
		return err
	}
	if lang == "" {
		lang = "(browser default)"
	}
	printlnFn("Language: " + lang)
	return nil
}

func (a *App) Theme(ctx context.Context, args []string) error {
	if len(args) > 0 {
		if err := a.prefs.SetTheme(ctx, args[0]); err != nil {
			return err
		}
	}
	theme, err := a.prefs.Theme(ctx)
	if err != nil {
		return err
	}
	printlnFn("Theme: " + theme)
	return nil
}
