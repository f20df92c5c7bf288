package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/ferdian3456/envisiontech/internal/client"
	"github.com/ferdian3456/envisiontech/internal/config"
	"github.com/ferdian3456/envisiontech/internal/model"
	"github.com/ferdian3456/envisiontech/internal/observability"
	"github.com/ferdian3456/envisiontech/internal/thread"

	"go.uber.org/zap"
)

const usage = `usage: forum [flags] <command> [args]

commands:
  register   -username -email -password -first -last [-grade] [-courses a,b]
  login      -username -password
  logout
  feed       [-pages N] [-expand]
  replies    <comment id>
  post       [-parent id] <text>
  like       <comment id>
  units | courses | blog
  practice
  about      [name]
`

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout io.Writer, stderr io.Writer) int {
	flags := flag.NewFlagSet("forum", flag.ContinueOnError)
	flags.SetOutput(stderr)
	flags.Usage = func() { fmt.Fprint(stderr, usage) }

	apiURL := flags.String("api", "", "API base url (default ENVISION_API_URL or http://127.0.0.1:5000)")
	credentialsPath := flags.String("credentials", "", "credentials file (default ENVISION_CREDENTIALS_FILE)")
	envFile := flags.String("env", ".env", "dotenv file to read settings from")

	if err := flags.Parse(args); err != nil {
		return 2
	}
	if flags.NArg() == 0 {
		flags.Usage()
		return 2
	}

	log := config.NewZap(os.Getenv("LOG_LEVEL"))
	defer func() { _ = log.Sync() }()
	koanf := config.NewKoanf(log, *envFile)

	otelShutdown, err := observability.Init(context.Background(), config.LoadObservabilityConfig(koanf, "envisiontech-forum"), log)
	if err != nil {
		log.Warn("failed to initialize tracing", zap.Error(err))
		otelShutdown = func(context.Context) error { return nil }
	}
	defer func() { _ = otelShutdown(context.Background()) }()

	if *apiURL == "" {
		*apiURL = config.StringOrDefault(koanf, "ENVISION_API_URL", "http://127.0.0.1:5000")
	}
	if *credentialsPath == "" {
		*credentialsPath = config.StringOrDefault(koanf, "ENVISION_CREDENTIALS_FILE", defaultCredentialsPath())
	}

	transport, err := client.NewTransport(*apiURL, nil, log)
	if err != nil {
		fmt.Fprintln(stderr, client.UserMessage(err))
		return 1
	}

	credentials := client.NewFileCredentialStore(*credentialsPath)
	app := &cli{
		comments: client.NewCommentRepository(transport, credentials, log),
		accounts: client.NewAccountClient(transport, credentials, log),
		content:  client.NewContentClient(transport),
		log:      log,
		stdout:   stdout,
		stderr:   stderr,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	err = app.dispatch(ctx, flags.Arg(0), flags.Args()[1:])
	if err != nil {
		log.Debug("command failed", zap.String("command", flags.Arg(0)), zap.Error(err))
		fmt.Fprintln(stderr, errorText(err))
		return 1
	}

	return 0
}

// errorText prefers the user-facing message of API failures and falls back to the raw
// error for local mistakes such as a bad argument.
func errorText(err error) string {
	var clientErr *model.ClientError
	var validationErr *model.ValidationError
	if errors.As(err, &clientErr) || errors.As(err, &validationErr) {
		return client.UserMessage(err)
	}
	return err.Error()
}

func defaultCredentialsPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = "."
	}
	return filepath.Join(dir, "envisiontech", "credentials.json")
}

type cli struct {
	comments *client.CommentRepository
	accounts *client.AccountClient
	content  *client.ContentClient
	log      *zap.Logger
	stdout   io.Writer
	stderr   io.Writer
}

func (c *cli) dispatch(ctx context.Context, command string, args []string) error {
	switch command {
	case "register":
		return c.register(ctx, args)
	case "login":
		return c.login(ctx, args)
	case "logout":
		return c.accounts.Logout(ctx)
	case "feed":
		return c.feed(ctx, args)
	case "replies":
		return c.replies(ctx, args)
	case "post":
		return c.post(ctx, args)
	case "like":
		return c.like(ctx, args)
	case "units":
		units, err := c.content.Units(ctx)
		for _, unit := range units {
			fmt.Fprintln(c.stdout, unit.Name)
		}
		return err
	case "courses":
		courses, err := c.content.Courses(ctx)
		for _, course := range courses {
			fmt.Fprintln(c.stdout, course.Name)
		}
		return err
	case "blog":
		return c.blog(ctx)
	case "practice":
		return c.practice(ctx)
	case "about":
		return c.about(ctx, args)
	default:
		return fmt.Errorf("unknown command %q", command)
	}
}

func (c *cli) register(ctx context.Context, args []string) error {
	flags := flag.NewFlagSet("register", flag.ContinueOnError)
	flags.SetOutput(c.stderr)
	payload := model.UserRegisterRequest{}
	flags.StringVar(&payload.Username, "username", "", "username")
	flags.StringVar(&payload.Email, "email", "", "email address")
	flags.StringVar(&payload.Password, "password", "", "password")
	flags.StringVar(&payload.FirstName, "first", "", "first name")
	flags.StringVar(&payload.LastName, "last", "", "last name")
	flags.IntVar(&payload.Grade, "grade", 0, "school grade")
	courses := flags.String("courses", "", "comma separated course names")
	if err := flags.Parse(args); err != nil {
		return err
	}
	if *courses != "" {
		payload.Courses = strings.Split(*courses, ",")
	}

	token, err := c.accounts.Register(ctx, payload)
	if err != nil {
		return err
	}

	fmt.Fprintf(c.stdout, "registered as user %d\n", token.Id)
	return nil
}

func (c *cli) login(ctx context.Context, args []string) error {
	flags := flag.NewFlagSet("login", flag.ContinueOnError)
	flags.SetOutput(c.stderr)
	username := flags.String("username", "", "username")
	password := flags.String("password", "", "password")
	if err := flags.Parse(args); err != nil {
		return err
	}

	token, err := c.accounts.Login(ctx, *username, *password)
	if err != nil {
		return err
	}

	fmt.Fprintf(c.stdout, "signed in as user %d\n", token.Id)
	return nil
}

func (c *cli) feed(ctx context.Context, args []string) error {
	flags := flag.NewFlagSet("feed", flag.ContinueOnError)
	flags.SetOutput(c.stderr)
	pages := flags.Int("pages", 1, "number of pages to load")
	expand := flags.Bool("expand", false, "reveal the first replies of every comment (needs login)")
	if err := flags.Parse(args); err != nil {
		return err
	}

	feed := thread.New(c.comments, thread.WithLogger(c.log))
	err := feed.Load(ctx)
	if err != nil {
		return err
	}

	for i := 1; i < *pages; i++ {
		fetched, err := feed.LoadMore(ctx)
		if err != nil {
			return err
		}
		if !fetched {
			break
		}
	}

	if *expand {
		for _, comment := range feed.Snapshot().TopLevel {
			if comment.Comment.CountReplies == 0 {
				continue
			}
			err = feed.ExpandReplies(ctx, comment.Comment.Id)
			if err != nil {
				return err
			}
		}
	}

	view := feed.Snapshot()
	for _, comment := range view.TopLevel {
		printComment(c.stdout, comment.Comment, "")
		for _, reply := range comment.PostedReplies {
			printComment(c.stdout, reply, "    ")
		}
		for _, reply := range comment.Replies {
			printComment(c.stdout, reply, "    ")
		}
		if comment.RemainingReplies > 0 {
			fmt.Fprintf(c.stdout, "    (%d more replies)\n", comment.RemainingReplies)
		}
	}
	if view.Status == thread.Exhausted {
		fmt.Fprintln(c.stdout, "-- end of feed --")
	}

	return nil
}

func (c *cli) replies(ctx context.Context, args []string) error {
	parentId, err := commentIdArg(args)
	if err != nil {
		return err
	}

	replies, err := c.comments.ListReplies(ctx, parentId)
	if err != nil {
		return err
	}

	for _, reply := range replies {
		printComment(c.stdout, reply, "")
	}
	return nil
}

func (c *cli) post(ctx context.Context, args []string) error {
	flags := flag.NewFlagSet("post", flag.ContinueOnError)
	flags.SetOutput(c.stderr)
	parent := flags.Int64("parent", 0, "id of the comment to reply to")
	if err := flags.Parse(args); err != nil {
		return err
	}

	text := strings.Join(flags.Args(), " ")
	var parentId *int64
	if *parent > 0 {
		parentId = parent
	}

	created, err := c.comments.Create(ctx, text, parentId)
	if err != nil {
		return err
	}

	printComment(c.stdout, created, "")
	return nil
}

func (c *cli) like(ctx context.Context, args []string) error {
	commentId, err := commentIdArg(args)
	if err != nil {
		return err
	}

	err = c.comments.ToggleLike(ctx, commentId)
	if err != nil {
		return err
	}

	fmt.Fprintf(c.stdout, "toggled like on %d\n", commentId)
	return nil
}

func (c *cli) blog(ctx context.Context) error {
	blog, err := c.content.Blog(ctx)
	if err != nil {
		return err
	}

	fmt.Fprintf(c.stdout, "%s\nby %s\n\n%s\n", blog.Title, blog.Author.Name, blog.Description)
	for _, section := range blog.Sections {
		fmt.Fprintf(c.stdout, "\n## %s\n", section.Header)
		for _, paragraph := range section.Paragraphs {
			fmt.Fprintf(c.stdout, "%s\n", paragraph)
		}
	}
	return nil
}

func (c *cli) practice(ctx context.Context) error {
	questions, err := c.content.Practice(ctx)
	if err != nil {
		return err
	}

	for i, body := range questions {
		question := client.NewQuestion(body, nil)
		fmt.Fprintf(c.stdout, "%d. %s\n", i+1, question.Prompt)
		for j, answer := range question.Answers {
			fmt.Fprintf(c.stdout, "   %c) %s\n", 'a'+j, answer)
		}
	}
	return nil
}

func (c *cli) about(ctx context.Context, args []string) error {
	if len(args) > 0 {
		person, err := c.content.AboutPerson(ctx, strings.Join(args, " "))
		if err != nil {
			return err
		}
		fmt.Fprintf(c.stdout, "%s, %s\n%s\n", person.Name, person.Position, person.Description)
		return nil
	}

	people, err := c.content.About(ctx)
	if err != nil {
		return err
	}
	for _, person := range people {
		fmt.Fprintf(c.stdout, "%s, %s\n", person.Name, person.Position)
	}
	return nil
}

func commentIdArg(args []string) (int64, error) {
	if len(args) != 1 {
		return 0, errors.New("expected one comment id")
	}

	commentId, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("comment id %q is not a number", args[0])
	}

	return commentId, nil
}

func printComment(w io.Writer, comment model.Comment, indent string) {
	liked := ""
	if comment.UserLiked {
		liked = " (liked)"
	}

	fmt.Fprintf(w, "%s#%d %s: %s [%d likes%s, %s]\n",
		indent, comment.Id, comment.User.Username, comment.Text, comment.CountLikes, liked,
		comment.PostDate.Local().Format("2006-01-02 15:04"))
}
