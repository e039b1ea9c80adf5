package auth

import (
	"fmt"
	"io"
	"strings"
)

// WriteTokenGuide prints how to obtain a Slack bot token for wallgrab
func WriteTokenGuide(w io.Writer) {
	rule := strings.Repeat("=", 72)
	fmt.Fprintln(w, rule)
	fmt.Fprintln(w, "SLACK BOT TOKEN")
	fmt.Fprintln(w, rule)
	fmt.Fprintln(w)
	fmt.Fprintln(w, "wallgrab posts one message per downloaded image and one on failure.")
	fmt.Fprintln(w, "It authenticates as a Slack app bot user:")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  1. Create an app at https://api.slack.com/apps")
	fmt.Fprintln(w, "  2. Under OAuth & Permissions add the chat:write bot scope")
	fmt.Fprintln(w, "  3. Install the app to your workspace")
	fmt.Fprintln(w, "  4. Copy the Bot User OAuth Token (it starts with xoxb-)")
	fmt.Fprintln(w, "  5. Invite the bot to the target channel: /invite @your-bot")
	fmt.Fprintln(w)
	fmt.Fprintf(w, "The token can also be supplied through %s.\n", strings.Join(TokenEnvVars, " or "))
	fmt.Fprintln(w, rule)
}
