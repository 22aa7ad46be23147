package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/openfoods/openfoods/internal/domain"
	"github.com/openfoods/openfoods/internal/usecase"
)

// Options tune output behavior from root flags.
type Options struct {
	JSON      bool // print foods as JSON
	LikedOnly bool // ls shows liked foods only
	NoColor   bool
	Out, Err  io.Writer

	// Browse starts the interactive list. Nil disables the subcommand.
	Browse func(ctx context.Context, svc *usecase.FoodListService) error
}

// Run dispatches subcommands and returns an exit code (0 ok, 1 error, 2 usage).
func Run(ctx context.Context, svc *usecase.FoodListService, args []string, opt Options) int {
	if opt.Out == nil {
		opt.Out = os.Stdout
	}
	if opt.Err == nil {
		opt.Err = os.Stderr
	}
	p := printer{out: opt.Out, err: opt.Err, theme: NewTheme(opt.NoColor)}

	if len(args) == 0 {
		PrintHelp(opt.Out)
		return 2
	}
	cmd, a := args[0], args[1:]

	switch cmd {
	case "help", "-h", "--help":
		PrintHelp(opt.Out)
		return 0

	case "ls", "list":
		return doList(ctx, svc, p, opt)

	case "show", "like", "unlike", "toggle":
		if len(a) != 1 {
			p.fail(fmt.Sprintf("usage: openfoods %s <id>", cmd))
			return 2
		}
		id, err := strconv.Atoi(a[0])
		if err != nil {
			p.fail(cmd + ": not a number: " + a[0])
			return 2
		}
		switch cmd {
		case "show":
			return doShow(ctx, svc, p, opt, id)
		case "like":
			return doSetLiked(ctx, svc, p, id, true)
		case "unlike":
			return doSetLiked(ctx, svc, p, id, false)
		default:
			return doToggle(ctx, svc, p, id)
		}

	case "browse":
		if opt.Browse == nil {
			p.fail("browse: interactive mode unavailable")
			return 1
		}
		if err := opt.Browse(ctx, svc); err != nil {
			p.fail("browse: " + err.Error())
			return 1
		}
		return 0
	}

	p.fail("unknown subcommand: " + cmd)
	fmt.Fprintln(opt.Err)
	PrintHelp(opt.Err)
	return 2
}

// PrintHelp writes usage to w.
func PrintHelp(w io.Writer) {
	fmt.Fprint(w, `openfoods - browse and like foods from the OpenFoods API

Usage:
  openfoods [flags] <subcommand> [args]

Subcommands:
  ls                 List foods (--liked for liked only)
  show <id>          Show every detail of a food
  like <id>          Like a food
  unlike <id>        Unlike a food
  toggle <id>        Like if not liked, unlike otherwise
  browse             Interactive list (space: like/unlike, enter: details, r: refresh)

Flags:
  --json             Print foods as JSON
  --liked            Only list liked foods
  --no-color         Disable colors
  --api.base_url     OpenFoods API base URL (env OPENFOODS_API_BASE_URL)
  -v, --verbose      Debug logging to stderr

Examples:
  openfoods ls
  openfoods like 1
  openfoods --json show 1
`)
}

// -------------- subcommand impls ----------------

func doList(ctx context.Context, svc *usecase.FoodListService, p printer, opt Options) int {
	foods, err := svc.Refresh(ctx)
	if err != nil {
		p.failErr("load", err)
		return 1
	}
	total := len(foods)

	if opt.LikedOnly {
		liked := make([]domain.Food, 0, len(foods))
		for _, f := range foods {
			if f.IsLiked {
				liked = append(liked, f)
			}
		}
		foods = liked
	}

	if opt.JSON {
		if err := p.json(foods); err != nil {
			p.fail("encode: " + err.Error())
			return 1
		}
		return 0
	}

	lines := p.listLines(foods, total)
	lines = append(lines, "", p.theme.Muted.Render("Tip: like with `openfoods like <id>`"))
	p.panel(lines)
	return 0
}

func doShow(ctx context.Context, svc *usecase.FoodListService, p printer, opt Options, id int) int {
	food, err := svc.Resolve(ctx, id)
	if err != nil {
		p.failErr("show", err)
		return 1
	}

	if opt.JSON {
		if err := p.json(food); err != nil {
			p.fail("encode: " + err.Error())
			return 1
		}
		return 0
	}
	p.panel(p.detailLines(food))
	return 0
}

func doSetLiked(ctx context.Context, svc *usecase.FoodListService, p printer, id int, liked bool) int {
	food, err := svc.Resolve(ctx, id)
	if err != nil {
		p.failErr("load", err)
		return 1
	}
	foods, err := svc.SetLiked(ctx, food, liked)
	if err != nil {
		p.failErr(verb(liked), err)
		return 1
	}
	return p.reportState(foods, food, liked)
}

func doToggle(ctx context.Context, svc *usecase.FoodListService, p printer, id int) int {
	food, err := svc.Resolve(ctx, id)
	if err != nil {
		p.failErr("load", err)
		return 1
	}
	foods, err := svc.ToggleLike(ctx, food)
	if err != nil {
		p.failErr(verb(!food.IsLiked), err)
		return 1
	}
	return p.reportState(foods, food, !food.IsLiked)
}

// reportState prints the outcome as observed in the re-fetched list.
func (p printer) reportState(foods []domain.Food, food domain.Food, liked bool) int {
	updated, ok := domain.FindByID(foods, food.ID)
	if !ok {
		p.fail(fmt.Sprintf("food %d disappeared from the list", food.ID))
		return 1
	}
	p.ok(fmt.Sprintf("%sd %q", verb(liked), updated.Name))
	if updated.IsLiked != liked {
		p.hint("the server still reports the previous state; run `openfoods ls` to refresh")
	}
	return 0
}

func (p printer) failErr(action string, err error) {
	p.fail(action + ": " + err.Error())

	var statusErr *domain.InvalidStatusCodeError
	switch {
	case errors.Is(err, domain.ErrFoodNotFound):
		p.hint("run `openfoods ls` to see valid ids")
	case errors.As(err, &statusErr) && statusErr.Code >= 500:
		p.hint("the server is having trouble; try again later")
	case errors.Is(err, context.DeadlineExceeded):
		p.hint("the request timed out; check --api.base_url and your connection")
	}
}

func verb(liked bool) string {
	if liked {
		return "like"
	}
	return "unlike"
}
