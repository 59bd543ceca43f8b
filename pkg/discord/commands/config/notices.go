package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/small-frappuccino/rolepanel/pkg/errutil"
	"github.com/small-frappuccino/rolepanel/pkg/files"
	"github.com/small-frappuccino/rolepanel/pkg/theme"
)

func successPanel(title, description string, rows ...discordgo.MessageComponent) Panel {
	return embedPanel(title, description, theme.Success(), rows...)
}

func roleAlreadyPresentPanel(roleID string) Panel {
	return embedPanel("⚠️ Rôle déjà présent", fmt.Sprintf("<@&%s> est déjà dans le sélecteur.", roleID), theme.Warning(), roleBackRow())
}

func roleAlreadyUsedPanel(roleID string) Panel {
	return embedPanel("⚠️ Rôle déjà utilisé", fmt.Sprintf("<@&%s> est déjà utilisé par une autre entrée.", roleID), theme.Warning(), roleBackRow())
}

func invalidColorPanel(input string) Panel {
	return embedPanel("❌ Couleur invalide",
		fmt.Sprintf("Format invalide : `%s`. Utilisez un code hex comme `#FF5733`.", input),
		theme.Error(), roleBackRow())
}

// invalidInputPanel reports a rejected field without echoing internal messages.
func invalidInputPanel(err error) Panel {
	field := "?"
	var verr files.ValidationError
	if errors.As(err, &verr) {
		field = verr.Field
	}
	return embedPanel("❌ Valeur invalide", fmt.Sprintf("Le champ `%s` n'est pas valide.", field), theme.Error(), roleBackRow())
}

func deployErrorPanel(err error) Panel {
	hint := "Réessayez ou choisissez un autre salon."
	if errutil.IsMissingPermissions(err) {
		hint = "Vérifiez que le bot peut voir ce salon et y envoyer des messages."
	}
	return embedPanel("❌ Erreur de déploiement",
		fmt.Sprintf("`%s`\n%s", errutil.Describe(err), hint),
		theme.Error(), roleBackRow())
}

// updateErrorPanel reports a failed in-place edit. gone is set when the
// deployed message or its channel no longer exists.
func updateErrorPanel(err error, gone bool) Panel {
	hint := "Redéployez dans un salon."
	if gone {
		hint = "Le message déployé n'existe plus. Redéployez dans un salon."
	}
	return embedPanel("❌ Erreur de mise à jour",
		fmt.Sprintf("`%s`\n%s", errutil.Describe(err), hint),
		theme.Error(), roleBackRow())
}

func noDeploymentPanel() Panel {
	return embedPanel("❌ Aucun message existant", "Déployez d'abord le message dans un salon.", theme.Error(), roleBackRow())
}

func adminAlreadyPanel(ref files.AdminRef) Panel {
	return embedPanel("⚠️ Déjà admin", fmt.Sprintf("%s est déjà admin du bot.", mentionOf(ref)), theme.Warning(), adminBackRow())
}

func adminNotFoundPanel(ref files.AdminRef) Panel {
	return embedPanel("❌ Admin introuvable", fmt.Sprintf("%s n'est plus admin du bot.", mentionOf(ref)), theme.Error(), adminBackRow())
}

func mentionOf(ref files.AdminRef) string {
	if ref.Kind == files.AdminRole {
		return "<@&" + ref.ID + ">"
	}
	return "<@" + ref.ID + ">"
}

func stateLabel(on bool) string {
	if on {
		return "activés"
	}
	return "désactivés"
}

// entryChangeLines renders the changed entry fields as "field → value".
func entryChangeLines(changes []files.FieldChange) []string {
	lines := make([]string, 0, len(changes))
	for _, c := range changes {
		v := c.Value
		if c.Field == "emoji" && v == "" {
			v = "*(retiré)*"
		}
		lines = append(lines, c.Field+" → "+v)
	}
	return lines
}

// appearanceChangeLines renders personalization changes as sentences.
func appearanceChangeLines(changes []files.FieldChange) []string {
	lines := make([]string, 0, len(changes))
	for _, c := range changes {
		switch c.Field {
		case "title":
			lines = append(lines, "Titre mis à jour.")
		case "footer":
			lines = append(lines, "Footer mis à jour.")
		case "color":
			if c.Value == "" {
				lines = append(lines, "Couleur retirée.")
			} else {
				lines = append(lines, fmt.Sprintf("Couleur mise à jour : `%s`.", c.Value))
			}
		}
	}
	return lines
}

func bullets(lines []string) string {
	var b strings.Builder
	for i, l := range lines {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString("  • " + l)
	}
	return b.String()
}

// FormatTimeout renders a session timeout in French, e.g. "5 minutes".
func FormatTimeout(d time.Duration) string {
	if d >= time.Minute && d%time.Minute == 0 {
		n := int(d / time.Minute)
		if n == 1 {
			return "1 minute"
		}
		return fmt.Sprintf("%d minutes", n)
	}
	n := int(d.Round(time.Second) / time.Second)
	if n <= 1 {
		return "1 seconde"
	}
	return fmt.Sprintf("%d secondes", n)
}
