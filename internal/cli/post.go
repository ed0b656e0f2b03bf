package cli

import (
	"github.com/spf13/cobra"

	"github.com/watzon/blogwebhook/internal/posts"
)

// postFlags are shared by create and update.
type postFlags struct {
	from           string
	title          string
	content        string
	contentFile    string
	summary        string
	tags           []string
	draft          bool
	headerImage    string
	headerImageAlt string
	slug           string
	date           string
}

func (f *postFlags) register(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.StringVar(&f.from, "from", "", "load the post from a markdown file with frontmatter")
	flags.StringVar(&f.title, "title", "", "post title")
	flags.StringVar(&f.content, "content", "", "post content (markdown)")
	flags.StringVarP(&f.contentFile, "file", "f", "", "read content from a file ('-' for stdin)")
	flags.StringVar(&f.summary, "summary", "", "post summary")
	flags.StringArrayVar(&f.tags, "tag", nil, "post tag (repeatable, one tag per flag)")
	flags.BoolVar(&f.draft, "draft", false, "mark the post as a draft")
	flags.StringVar(&f.headerImage, "header-image", "", "header image URL")
	flags.StringVar(&f.headerImageAlt, "header-image-alt", "", "header image alt text")
	flags.StringVar(&f.slug, "slug", "", "post slug")
	flags.StringVar(&f.date, "date", "", "publication date (ISO-8601)")

	cmd.MarkFlagsMutuallyExclusive("content", "file")
	cmd.MarkFlagsMutuallyExclusive("from", "content")
	cmd.MarkFlagsMutuallyExclusive("from", "file")
}

// post builds the post from --from (if given) and applies explicitly set
// flags on top.
func (f *postFlags) post(cmd *cobra.Command) (*posts.Post, error) {
	post := &posts.Post{}
	if f.from != "" {
		loaded, err := posts.Load(f.from)
		if err != nil {
			return nil, err
		}
		post = loaded
	}

	changed := cmd.Flags().Changed
	if changed("title") {
		post.Title = f.title
	}
	if changed("content") {
		post.Content = f.content
	}
	if f.contentFile != "" {
		data, err := readInput(cmd.InOrStdin(), f.contentFile)
		if err != nil {
			return nil, err
		}
		post.Content = string(data)
	}
	if changed("summary") {
		post.Summary = f.summary
	}
	if changed("tag") {
		post.Tags = f.tags
	}
	if changed("draft") {
		post.Draft = f.draft
	}
	if changed("header-image") {
		post.HeaderImage = f.headerImage
	}
	if changed("header-image-alt") {
		post.HeaderImageAlt = f.headerImageAlt
	}
	if changed("slug") {
		post.Slug = f.slug
	}
	if changed("date") {
		post.Date = f.date
	}
	return post, nil
}

func newCreateCmd(opts *rootOptions) *cobra.Command {
	f := &postFlags{}

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a blog post",
		Long: `Create a new blog post. Title and content are required; the date defaults
to now and the blog derives a slug from the title when none is given.

Example:
  blogwebhook create --title "Hello" --file hello.md --tag go --tag webhooks`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, opts)
			if err != nil {
				return err
			}
			post, err := f.post(cmd)
			if err != nil {
				return err
			}
			client, done, err := newClient(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer done()

			ctx, cancel := requestContext(cmd.Context(), cfg.Webhook.Timeout)
			defer cancel()

			result, err := client.CreatePost(ctx, post.CreateInput())
			if err != nil {
				return err
			}
			return printResult(cmd.OutOrStdout(), result)
		},
	}
	f.register(cmd)

	return cmd
}

func newUpdateCmd(opts *rootOptions) *cobra.Command {
	f := &postFlags{}

	cmd := &cobra.Command{
		Use:   "update",
		Short: "Update an existing blog post",
		Long: `Replace an existing post identified by its slug. Slug, title and content
are required. The date is only changed when --date is given.

Example:
  blogwebhook update --slug hello --title "Hello again" --file hello.md`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, opts)
			if err != nil {
				return err
			}
			post, err := f.post(cmd)
			if err != nil {
				return err
			}
			client, done, err := newClient(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer done()

			in := post.UpdateInput()
			if f.from == "" {
				// Only a source file may fall back to the title-derived slug.
				in.Slug = post.Slug
			}

			ctx, cancel := requestContext(cmd.Context(), cfg.Webhook.Timeout)
			defer cancel()

			result, err := client.UpdatePost(ctx, in)
			if err != nil {
				return err
			}
			return printResult(cmd.OutOrStdout(), result)
		},
	}
	f.register(cmd)

	return cmd
}

func newDeleteCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <slug>",
		Short: "Delete a blog post",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, opts)
			if err != nil {
				return err
			}
			client, done, err := newClient(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer done()

			ctx, cancel := requestContext(cmd.Context(), cfg.Webhook.Timeout)
			defer cancel()

			result, err := client.DeletePost(ctx, args[0])
			if err != nil {
				return err
			}
			return printResult(cmd.OutOrStdout(), result)
		},
	}
}
