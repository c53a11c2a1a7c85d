// hatm is a terminal front end for the hatm server: the same flows the
// Telegram Mini App offers, driven from subcommands. Identity comes
// from the TELEGRAM_INIT_DATA environment variable; without it the
// client falls back to a development profile that only a dev-mode
// server accepts.
package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/spf13/pflag"

	"github.com/hatmapp/hatm/internal/distribution"
	"github.com/hatmapp/hatm/pkg/client"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var serverURL string

	flagSet := pflag.NewFlagSet("hatm", pflag.ContinueOnError)
	flagSet.StringVar(&serverURL, "server", envOr("HATM_SERVER", "http://localhost:8080"), "hatm server base URL")
	flagSet.BoolP("help", "h", false, "show help")

	if err := flagSet.Parse(os.Args[1:]); err != nil {
		if err == pflag.ErrHelp {
			printHelp(flagSet)
			return nil
		}
		return err
	}
	if help, _ := flagSet.GetBool("help"); help {
		printHelp(flagSet)
		return nil
	}

	args := flagSet.Args()
	if len(args) == 0 {
		printHelp(flagSet)
		return fmt.Errorf("a command is required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	session := client.NewSession()
	if session.Dev {
		fmt.Fprintln(os.Stderr, "note: TELEGRAM_INIT_DATA is not set, using the development profile")
	}
	c := client.New(serverURL, session)

	cmd, rest := args[0], args[1:]
	switch cmd {
	case "me":
		return cmdMe(ctx, c)
	case "juzs":
		return cmdJuzs(ctx, c)
	case "debts":
		return cmdDebts(ctx, c)
	case "groups":
		return cmdGroups(ctx, c)
	case "group":
		return withArg(rest, "group <id>", func(id string) error { return cmdGroup(ctx, c, id) })
	case "create-group":
		return withArg(rest, "create-group <name>", func(name string) error { return cmdCreateGroup(ctx, c, name) })
	case "join":
		return withArg(rest, "join <invite-code>", func(code string) error { return cmdJoin(ctx, c, code) })
	case "hatms":
		return withArg(rest, "hatms <group-id>", func(id string) error { return cmdHatms(ctx, c, id) })
	case "create-hatm":
		return cmdCreateHatm(ctx, c, rest)
	case "hatm":
		return withArg(rest, "hatm <id>", func(id string) error { return cmdHatm(ctx, c, id) })
	case "start":
		return withArg(rest, "start <hatm-id>", func(id string) error { return cmdStart(ctx, c, id) })
	case "finish":
		return withArg(rest, "finish <hatm-id>", func(id string) error { return cmdFinish(ctx, c, id) })
	case "complete-juz":
		return cmdCompleteJuz(ctx, c, rest)
	case "preview":
		return withArg(rest, "preview <participants>", cmdPreview)
	default:
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func withArg(args []string, usage string, fn func(string) error) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: hatm %s", usage)
	}
	return fn(args[0])
}

func envOr(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func cmdMe(ctx context.Context, c *client.Client) error {
	me, err := c.Me(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("%s (telegram %d)\n", displayName(me.FirstName, me.Username), me.TelegramID)
	fmt.Printf("id: %s\n", me.ID)
	return nil
}

func cmdJuzs(ctx context.Context, c *client.Client) error {
	stats, err := c.MyJuzs(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("assigned %d, completed %d, pending %d, debts %d\n",
		stats.TotalAssigned, stats.Completed, stats.Pending, stats.Debts)
	for _, j := range stats.Juzs {
		fmt.Printf("  juz %2d  %s\n", j.JuzNumber, string(j.Status))
	}
	return nil
}

func cmdDebts(ctx context.Context, c *client.Client) error {
	debts, err := c.MyDebts(ctx)
	if err != nil {
		return err
	}
	if debts.TotalDebts == 0 {
		fmt.Println("no debts")
		return nil
	}
	fmt.Printf("%d debt(s):\n", debts.TotalDebts)
	for _, j := range debts.Debts {
		fmt.Printf("  juz %2d  (%s)\n", j.JuzNumber, j.ID)
	}
	return nil
}

func cmdGroups(ctx context.Context, c *client.Client) error {
	groups, err := c.ListGroups(ctx)
	if err != nil {
		return err
	}
	if len(groups) == 0 {
		fmt.Println("no groups; create one with `hatm create-group <name>`")
		return nil
	}
	for _, g := range groups {
		marker := " "
		if g.HasActiveHatm {
			marker = "*"
		}
		fmt.Printf("%s %-24s %2d member(s)  invite %s  (%s)\n", marker, g.Name, g.MembersCount, g.InviteCode, g.ID)
	}
	return nil
}

func cmdGroup(ctx context.Context, c *client.Client, id string) error {
	detail, err := c.GetGroup(ctx, id)
	if err != nil {
		return err
	}
	fmt.Printf("%s  invite %s\n", detail.Name, detail.InviteCode)
	fmt.Printf("members (%d):\n", len(detail.Members))
	for _, m := range detail.Members {
		fmt.Printf("  %s\n", displayName(m.FirstName, m.Username))
	}
	if detail.ActiveHatm != nil {
		fmt.Printf("active hatm: %s (ends %s)\n", detail.ActiveHatm.ID, formatUnix(detail.ActiveHatm.EndsAt))
	}
	return nil
}

func cmdCreateGroup(ctx context.Context, c *client.Client, name string) error {
	group, err := c.CreateGroup(ctx, name)
	if err != nil {
		return err
	}
	fmt.Printf("created %s (%s)\n", group.Name, group.ID)
	fmt.Printf("invite code: %s\n", group.InviteCode)
	return nil
}

func cmdJoin(ctx context.Context, c *client.Client, code string) error {
	group, err := c.JoinGroup(ctx, code)
	if err != nil {
		return err
	}
	fmt.Printf("joined %s (%d member(s))\n", group.Name, group.MembersCount)
	return nil
}

func cmdHatms(ctx context.Context, c *client.Client, groupID string) error {
	hatms, err := c.ListHatms(ctx, groupID)
	if err != nil {
		return err
	}
	if len(hatms) == 0 {
		fmt.Println("no hatms yet")
		return nil
	}
	for _, h := range hatms {
		fmt.Printf("%s  %-9s  %d day(s), %d reader slot(s)\n", h.ID, string(h.Status), h.DurationDays, h.ParticipantsCount)
	}
	return nil
}

func cmdCreateHatm(ctx context.Context, c *client.Client, args []string) error {
	var days, participants int

	flagSet := pflag.NewFlagSet("create-hatm", pflag.ContinueOnError)
	flagSet.IntVar(&days, "days", 30, "reading window in days (1-30)")
	flagSet.IntVar(&participants, "participants", 1, "number of reader slots (1-30)")
	if err := flagSet.Parse(args); err != nil {
		return err
	}
	if flagSet.NArg() != 1 {
		return fmt.Errorf("usage: hatm create-hatm <group-id> [--days N] [--participants N]")
	}

	// Show the split before committing, the way the creation form does.
	counts, err := client.PreviewDistribution(participants)
	if err != nil {
		return err
	}
	fmt.Printf("distribution for %d reader(s): %v\n", participants, counts)

	hatm, err := c.CreateHatm(ctx, flagSet.Arg(0), days, participants)
	if err != nil {
		return err
	}
	fmt.Printf("created hatm %s (%s); start it with `hatm start %s`\n", hatm.ID, string(hatm.Status), hatm.ID)
	return nil
}

func cmdHatm(ctx context.Context, c *client.Client, id string) error {
	w := client.NewWorkflow(c, id)
	snap, err := w.Load(ctx)
	if err != nil {
		return err
	}

	h := snap.Hatm
	fmt.Printf("hatm %s  %s  %d day(s), %d reader slot(s)\n", h.ID, string(h.Status), h.DurationDays, h.ParticipantsCount)
	if h.StartedAt != 0 {
		fmt.Printf("window: %s .. %s\n", formatUnix(h.StartedAt), formatUnix(h.EndsAt))
	}
	p := snap.Progress
	fmt.Printf("progress: %d%% (%d completed, %d pending, %d debt)\n",
		p.ProgressPercent, p.CompletedJuzs, p.PendingJuzs, p.DebtJuzs)

	for _, j := range h.JuzAssignments {
		owner := "unassigned"
		if j.UserID != "" {
			owner = displayName(j.FirstName, j.Username)
		}
		note := ""
		if w.CanComplete(j) {
			note = "  <- complete-juz " + j.ID
		}
		fmt.Printf("  juz %2d  %-9s  %s%s\n", j.JuzNumber, string(j.Status), owner, note)
	}

	if w.CanStart() {
		fmt.Printf("run `hatm start %s` to open the reading window\n", h.ID)
	}
	if w.CanFinish() {
		fmt.Printf("run `hatm finish %s` to close this hatm manually\n", h.ID)
	}
	return nil
}

func cmdStart(ctx context.Context, c *client.Client, id string) error {
	hatm, err := c.StartHatm(ctx, id)
	if err != nil {
		return err
	}
	fmt.Printf("started; reading window closes %s\n", formatUnix(hatm.EndsAt))
	return nil
}

func cmdFinish(ctx context.Context, c *client.Client, id string) error {
	if _, err := c.CompleteHatm(ctx, id); err != nil {
		return err
	}
	fmt.Println("hatm completed")
	return nil
}

func cmdCompleteJuz(ctx context.Context, c *client.Client, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: hatm complete-juz <juz-id>")
	}
	juz, err := c.CompleteJuz(ctx, args[0])
	if err != nil {
		return err
	}
	fmt.Printf("juz %d completed\n", juz.JuzNumber)
	return nil
}

func cmdPreview(arg string) error {
	participants, err := strconv.Atoi(arg)
	if err != nil {
		return fmt.Errorf("participants must be a number: %w", err)
	}
	preview, err := distribution.Describe(participants)
	if err != nil {
		return err
	}
	if preview.WithExtra == 0 {
		fmt.Printf("%d reader(s): %d juz each\n", participants, preview.Base)
		return nil
	}
	fmt.Printf("%d reader(s): %d read %d juz, %d read %d juz\n",
		participants, preview.WithExtra, preview.Base+1, participants-preview.WithExtra, preview.Base)
	return nil
}

func displayName(firstName, username string) string {
	switch {
	case firstName != "" && username != "":
		return fmt.Sprintf("%s (@%s)", firstName, username)
	case firstName != "":
		return firstName
	case username != "":
		return "@" + username
	default:
		return "unknown"
	}
}

func formatUnix(ts int64) string {
	if ts == 0 {
		return "-"
	}
	return time.Unix(ts, 0).Format("2006-01-02 15:04")
}

func printHelp(flagSet *pflag.FlagSet) {
	fmt.Fprint(os.Stderr, `hatm — group Quran reading from the terminal.

Usage: hatm [--server URL] <command> [args]

Commands:
  me                           show the authenticated profile
  juzs                         list every juz assigned to you
  debts                        list your unread debt portions
  groups                       list your groups
  group <id>                   show a group with members and active hatm
  create-group <name>          create a group and print its invite code
  join <invite-code>           join a group by invite code
  hatms <group-id>             list a group's hatms
  create-hatm <group-id>       create a hatm (--days, --participants)
  hatm <id>                    show a hatm with per-juz assignments
  start <hatm-id>              open the reading window
  complete-juz <juz-id>        mark your juz as read
  finish <hatm-id>             close a hatm manually
  preview <participants>       show the juz split for a participant count

Flags:
`)
	flagSet.PrintDefaults()
}
