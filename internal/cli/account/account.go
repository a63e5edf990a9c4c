package account

import (
	"github.com/julianstephens/habitual/internal/cli"
)

type LoginCmd struct {
	Name  string `arg:"" help:"Display name."`
	Email string `help:"Email address."`
}

func (c *LoginCmd) Run(ctx *cli.Context) error {
	u, err := ctx.Session.Login(c.Name, c.Email)
	if err != nil {
		return err
	}
	ctx.Success("Logged in as %s", u.Name)
	ctx.Println(ctx.Session.Greeting())
	return nil
}

type LogoutCmd struct{}

func (c *LogoutCmd) Run(ctx *cli.Context) error {
	u, ok := ctx.Session.Current()
	if !ok {
		ctx.Println("Not logged in.")
		return nil
	}
	if err := ctx.Session.Logout(); err != nil {
		return err
	}
	ctx.Success("Logged out %s", u.Name)
	return nil
}

type WhoamiCmd struct{}

func (c *WhoamiCmd) Run(ctx *cli.Context) error {
	u, ok := ctx.Session.Current()
	if !ok {
		ctx.Println("Not logged in. Use 'habitual login NAME' to sign in.")
		return nil
	}
	if u.Email != "" {
		ctx.Printf("%s <%s>\n", u.Name, u.Email)
	} else {
		ctx.Println(u.Name)
	}
	ctx.Println(cli.Dim("ID: " + u.ID))
	return nil
}
