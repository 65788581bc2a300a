package bugzilla

import (
	"context"
	"fmt"
	"net/url"
	"sort"
	"strings"
)

// desktopProducts is the set of Bugzilla products counted as Desktop
// Firefox work when looking for first-time contributors.
var desktopProducts = []string{
	"Core",
	"Developer Infrastructure",
	"DevTools",
	"Firefox",
	"Firefox Build System",
	"NSPR",
	"NSS",
	"Remote Protocol",
	"Testing",
	"Toolkit",
	"Web Compatibility",
	"WebExtensions",
}

// employeeDomains are addresses that belong to staff or contractors and
// never count as volunteer contributors.
var employeeDomains = []string{
	"@getpocket.com",
	"@mozilla.com",
	"@mozilla.org",
	"@mozillafoundation.org",
	"@softvision.com",
	"@softvision.ro",
	"@softvisioninc.eu",
}

// Contributor is a Bugzilla account whose first fixed Desktop bug landed
// in the queried release.
type Contributor struct {
	Email string
	Name  string
	Bugs  []int
}

type bugRecord struct {
	ID               int    `json:"id"`
	AssignedTo       string `json:"assigned_to"`
	LastResolved     string `json:"cf_last_resolved"`
	AssignedToDetail struct {
		RealName string `json:"real_name"`
		Nick     string `json:"nick"`
	} `json:"assigned_to_detail"`
}

type bugList struct {
	Bugs []bugRecord `json:"bugs"`
}

type userList struct {
	Users []struct {
		Groups []struct {
			Name string `json:"name"`
		} `json:"groups"`
	} `json:"users"`
}

// NewContributors finds the accounts whose first fixed Desktop Firefox
// bug landed in the given major version. Assignees with a staff address,
// in the employee group, or with an earlier fix on record are filtered
// out; each remaining account carries every bug it fixed in the release,
// and the result is sorted by display name.
func (c *Client) NewContributors(ctx context.Context, major int) ([]Contributor, error) {
	params := url.Values{}
	params.Set("target_milestone", fmt.Sprintf("%d Branch", major))
	params.Add("status", "RESOLVED")
	params.Add("status", "VERIFIED")
	for _, p := range desktopProducts {
		params.Add("product", p)
	}
	params.Set("include_fields", "id,assigned_to,cf_last_resolved")
	params.Set("order", "cf_last_resolved")

	var fixed bugList
	if err := c.get(ctx, "bug", params, &fixed); err != nil {
		return nil, fmt.Errorf("searching bugs fixed in Firefox %d: %w", major, err)
	}

	ruledOut := map[string]bool{}
	found := map[string]*Contributor{}
	for _, bug := range fixed.Bugs {
		assignee := bug.AssignedTo
		if isEmployeeAddress(assignee) || ruledOut[assignee] {
			continue
		}
		if entry, ok := found[assignee]; ok {
			entry.Bugs = append(entry.Bugs, bug.ID)
			continue
		}

		// The employee group check is cheaper than a bug search, and
		// not all bugs carry correct metadata.
		employee, err := c.isEmployee(ctx, assignee)
		if err != nil {
			return nil, fmt.Errorf("checking account %s: %w", assignee, err)
		}
		if employee {
			ruledOut[assignee] = true
			continue
		}

		prior, err := c.hasPriorFix(ctx, assignee, bug.LastResolved)
		if err != nil {
			return nil, fmt.Errorf("checking history of %s: %w", assignee, err)
		}
		if prior {
			ruledOut[assignee] = true
			continue
		}

		name := bug.AssignedToDetail.RealName
		if name == "" {
			name = bug.AssignedToDetail.Nick
		}
		found[assignee] = &Contributor{Email: assignee, Name: name, Bugs: []int{bug.ID}}
	}

	contributors := make([]Contributor, 0, len(found))
	for _, entry := range found {
		sort.Ints(entry.Bugs)
		contributors = append(contributors, *entry)
	}
	sort.Slice(contributors, func(i, j int) bool {
		return strings.ToLower(contributors[i].Name) < strings.ToLower(contributors[j].Name)
	})
	return contributors, nil
}

func isEmployeeAddress(email string) bool {
	for _, domain := range employeeDomains {
		if strings.HasSuffix(email, domain) {
			return true
		}
	}
	return false
}

// isEmployee reports whether the account is in the confidential employee
// group.
func (c *Client) isEmployee(ctx context.Context, email string) (bool, error) {
	params := url.Values{}
	params.Set("names", email)

	var users userList
	if err := c.get(ctx, "user", params, &users); err != nil {
		return false, err
	}
	if len(users.Users) == 0 {
		return false, nil
	}
	for _, group := range users.Users[0].Groups {
		if group.Name == "mozilla-employee-confidential" {
			return true, nil
		}
	}
	return false, nil
}

// hasPriorFix reports whether the account fixed a Desktop bug resolved
// before lastResolved. A target_milestone filter drops duplicates and
// other resolutions that never shipped.
func (c *Client) hasPriorFix(ctx context.Context, email, lastResolved string) (bool, error) {
	params := url.Values{}
	for _, p := range desktopProducts {
		params.Add("product", p)
	}
	params.Add("status", "RESOLVED")
	params.Add("status", "VERIFIED")
	params.Set("emailassigned_to1", "1")
	params.Set("emailtype1", "exact")
	params.Set("email1", email)
	params.Set("f1", "cf_last_resolved")
	params.Set("o1", "lessthan")
	params.Set("v1", strings.NewReplacer("T", " ", "Z", "").Replace(lastResolved))
	params.Set("f2", "target_milestone")
	params.Set("o2", "notequals")
	params.Set("v2", "---")
	params.Set("include_fields", "id")
	params.Set("limit", "1")

	var prior bugList
	if err := c.get(ctx, "bug", params, &prior); err != nil {
		return false, err
	}
	return len(prior.Bugs) > 0, nil
}

// Announcement renders the welcome paragraph and contribution list
// published with each release.
func Announcement(major int, contributors []Contributor) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "With the release of Firefox %d, we are pleased to welcome "+
		"the developers who contributed their first code change to Firefox in "+
		"this release, %d of whom were brand new volunteers! Please "+
		"join us in thanking each of these diligent and enthusiastic "+
		"individuals, and take a look at their contributions:\n\n",
		major, len(contributors))
	for _, entry := range contributors {
		links := make([]string, len(entry.Bugs))
		for i, id := range entry.Bugs {
			links[i] = fmt.Sprintf(`<a href="https://bugzilla.mozilla.org/%d">%d</a>`, id, id)
		}
		fmt.Fprintf(&sb, "* %s: %s\n", entry.Name, strings.Join(links, ", "))
	}
	return sb.String()
}
