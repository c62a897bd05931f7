package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/neexbeast/itinerary/internal/destination"
	"github.com/neexbeast/itinerary/internal/itinerary"
)

const menu = `1. Add Destination
2. Remove Destination
3. Update Destination
4. Search Destination
5. View All Destinations
6. AI Travel Assistance
7. Save Itinerary
8. Load Itinerary
9. Sort Destinations
10. Exit
`

const updateMenu = `1. Country
2. Start Date
3. End Date
4. Budget
5. Activities
`

// Assistant is the AI collaborator. *assistant.Assistant satisfies it.
type Assistant interface {
	Itinerary(ctx context.Context, d *destination.Destination) (string, error)
	BudgetTips(ctx context.Context, d *destination.Destination) (string, error)
}

// Console is the interactive menu front-end. It owns no state of its own;
// the manager, store and assistant are injected.
type Console struct {
	in        *bufio.Scanner
	lines     chan string
	readErr   error
	out       io.Writer
	manager   *itinerary.Manager
	store     itinerary.Store
	assistant Assistant
	log       *slog.Logger
}

// New returns a Console reading from in and writing to out. a may be nil,
// which disables the AI option.
func New(in io.Reader, out io.Writer, m *itinerary.Manager, store itinerary.Store, a Assistant, log *slog.Logger) *Console {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Console{
		in:        bufio.NewScanner(in),
		out:       out,
		manager:   m,
		store:     store,
		assistant: a,
		log:       log,
	}
}

// Run shows the menu until the user exits or input ends. End of input is a
// normal exit. Cancelling ctx ends the session even while a prompt is waiting
// for input.
func (c *Console) Run(ctx context.Context) error {
	stop := make(chan struct{})
	defer close(stop)
	c.lines = make(chan string)
	go c.read(stop)

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		c.printf("\n--- Welcome to the AI Travel Planner ---\nPlease select an option:\n%s", menu)
		choice, err := c.prompt(ctx, "Enter your choice: ")
		if err != nil {
			return ignoreEOF(err)
		}

		done, err := c.dispatch(ctx, strings.TrimSpace(choice))
		if err != nil {
			return ignoreEOF(err)
		}
		if done {
			return nil
		}
	}
}

func (c *Console) dispatch(ctx context.Context, choice string) (done bool, err error) {
	switch choice {
	case "1":
		return false, c.add(ctx)
	case "2":
		return false, c.remove(ctx)
	case "3":
		return false, c.update(ctx)
	case "4":
		return false, c.search(ctx)
	case "5":
		c.viewAll()
	case "6":
		return false, c.assist(ctx)
	case "7":
		c.save(ctx)
	case "8":
		c.load(ctx)
	case "9":
		return false, c.sort(ctx)
	case "10":
		c.printf("Exiting the AI Travel Planner. Safe travels!\n")
		return true, nil
	default:
		c.printf("Invalid choice. Please try again.\n")
	}
	return false, nil
}

func (c *Console) add(ctx context.Context) error {
	fields := make([]string, 0, 6)
	for _, label := range []string{
		"Enter city: ",
		"Enter country: ",
		"Enter start date (YYYY-MM-DD): ",
		"Enter end date (YYYY-MM-DD): ",
		"Enter budget: ",
		"Enter activities (comma separated): ",
	} {
		v, err := c.prompt(ctx, label)
		if err != nil {
			return err
		}
		fields = append(fields, strings.TrimSpace(v))
	}

	budget, err := strconv.ParseFloat(fields[4], 64)
	if err != nil {
		c.printf("Error: budget %q is not a number\n", fields[4])
		return nil
	}

	d := destination.New(fields[0], fields[1], fields[2], fields[3], budget, destination.ParseActivities(fields[5]))
	if err := d.Validate(); err != nil {
		c.printf("Error: %v\n", err)
		return nil
	}

	c.manager.Add(d)
	c.printf("Added destination:\n%s\n", d)
	return nil
}

func (c *Console) remove(ctx context.Context) error {
	city, err := c.prompt(ctx, "Enter city to remove: ")
	if err != nil {
		return err
	}
	city = strings.TrimSpace(city)

	if err := c.manager.Remove(city); err != nil {
		c.printf("Destination %s not found.\n", city)
		return nil
	}
	c.printf("Removed destination: %s\n", city)
	return nil
}

func (c *Console) update(ctx context.Context) error {
	city, err := c.prompt(ctx, "Enter city to update: ")
	if err != nil {
		return err
	}
	city = strings.TrimSpace(city)

	if _, ok := c.manager.Search(city); !ok {
		c.printf("Destination %s not found.\n", city)
		return nil
	}

	c.printf("What do you want to update?\n%s", updateMenu)
	choice, err := c.prompt(ctx, "Enter your choice: ")
	if err != nil {
		return err
	}

	var p destination.Patch
	switch strings.TrimSpace(choice) {
	case "1":
		v, err := c.prompt(ctx, "Enter new Country: ")
		if err != nil {
			return err
		}
		v = strings.TrimSpace(v)
		p.Country = &v
	case "2":
		v, err := c.prompt(ctx, "Enter new Start Date: ")
		if err != nil {
			return err
		}
		v = strings.TrimSpace(v)
		p.StartDate = &v
	case "3":
		v, err := c.prompt(ctx, "Enter new End Date: ")
		if err != nil {
			return err
		}
		v = strings.TrimSpace(v)
		p.EndDate = &v
	case "4":
		v, err := c.prompt(ctx, "Enter new Budget: ")
		if err != nil {
			return err
		}
		budget, perr := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if perr != nil {
			c.printf("Error: budget %q is not a number\n", strings.TrimSpace(v))
			return nil
		}
		p.Budget = &budget
	case "5":
		v, err := c.prompt(ctx, "Enter new Activities (comma separated): ")
		if err != nil {
			return err
		}
		activities := destination.ParseActivities(v)
		p.Activities = &activities
	default:
		c.printf("Invalid choice. Nothing was updated.\n")
		return nil
	}

	if err := c.manager.Update(city, p); err != nil {
		c.printf("Destination %s not found.\n", city)
		return nil
	}

	d, _ := c.manager.Search(city)
	c.printf("You have successfully updated your Destination:\n%s\n", d)
	if err := d.Validate(); err != nil {
		c.printf("Warning: %v\n", err)
	}
	return nil
}

func (c *Console) search(ctx context.Context) error {
	city, err := c.prompt(ctx, "Enter a City: ")
	if err != nil {
		return err
	}
	city = strings.TrimSpace(city)

	d, ok := c.manager.Search(city)
	if !ok {
		c.printf("Destination %s not found.\n", city)
		return nil
	}
	c.printf("%s\n", d)
	return nil
}

func (c *Console) viewAll() {
	all := c.manager.All()
	if len(all) == 0 {
		c.printf("No destinations planned yet.\n")
		return
	}
	c.printList(all)
}

func (c *Console) assist(ctx context.Context) error {
	if c.assistant == nil {
		c.printf("AI assistance is not configured. Set OPENAI_API_KEY to enable it.\n")
		return nil
	}

	city, err := c.prompt(ctx, "Enter city to get AI suggestions: ")
	if err != nil {
		return err
	}
	city = strings.TrimSpace(city)

	d, ok := c.manager.Search(city)
	if !ok {
		c.printf("No destination found for %s.\n", city)
		return nil
	}

	c.printf("----- Suggested Itinerary -----\n")
	if text, err := c.assistant.Itinerary(ctx, d); err != nil {
		c.log.Warn("itinerary generation failed", "city", city, "err", err)
		c.printf("Error: %v\n", err)
	} else {
		c.printf("%s\n", text)
	}

	c.printf("----- Budget Tips -----\n")
	if text, err := c.assistant.BudgetTips(ctx, d); err != nil {
		c.log.Warn("budget tips generation failed", "city", city, "err", err)
		c.printf("Error: %v\n", err)
	} else {
		c.printf("%s\n", text)
	}
	return nil
}

func (c *Console) save(ctx context.Context) {
	if err := c.manager.Save(ctx, c.store); err != nil {
		c.printf("Error saving itinerary: %v\n", err)
		return
	}
	c.printf("Itinerary saved successfully.\n")
}

func (c *Console) load(ctx context.Context) {
	err := c.manager.Load(ctx, c.store)
	switch {
	case errors.Is(err, itinerary.ErrNoFile):
		c.printf("No itinerary file found.\n")
	case err != nil:
		c.printf("Error loading itinerary: %v\n", err)
	default:
		c.printf("Itinerary loaded successfully.\n")
	}
}

func (c *Console) sort(ctx context.Context) error {
	key, err := c.prompt(ctx, "Sort by (budget/start_date/end_date): ")
	if err != nil {
		return err
	}

	if err := c.manager.Sort(strings.ToLower(strings.TrimSpace(key))); err != nil {
		c.printf("Invalid sort key. Please use 'budget', 'start_date', or 'end_date'.\n")
		return nil
	}
	c.printList(c.manager.All())
	c.printf("Destinations sorted successfully.\n")
	return nil
}

func (c *Console) printList(ds []*destination.Destination) {
	for _, d := range ds {
		c.printf("%s\n", d)
	}
}

// read feeds input lines to prompt until input ends or stop is closed. A
// blocked terminal read cannot be interrupted, so the goroutine may outlive
// Run until the next line arrives.
func (c *Console) read(stop <-chan struct{}) {
	defer close(c.lines)
	for c.in.Scan() {
		select {
		case c.lines <- c.in.Text():
		case <-stop:
			return
		}
	}
	if err := c.in.Err(); err != nil {
		c.readErr = fmt.Errorf("reading input: %w", err)
	}
}

// prompt writes label and waits for one line. It returns io.EOF when input
// is exhausted and ctx.Err() when ctx is cancelled first.
func (c *Console) prompt(ctx context.Context, label string) (string, error) {
	c.printf("%s", label)
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case line, ok := <-c.lines:
		if !ok {
			if c.readErr != nil {
				return "", c.readErr
			}
			return "", io.EOF
		}
		// A line racing a cancellation is dropped.
		if err := ctx.Err(); err != nil {
			return "", err
		}
		return line, nil
	}
}

func (c *Console) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(c.out, format, args...)
}

func ignoreEOF(err error) error {
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}
