package session

import (
	"fmt"
	"sort"
	"strconv"

	"guilddash/clients/discord"
)

// adminPermission is the administrator bit of the permission bitmask.
const adminPermission uint64 = 0x8

// defaultRoleColor is the neutral gray used when a role has no color set.
const defaultRoleColor = "#99aab5"

const statusOffline = "offline"

// ColorHex converts a packed role color to its display form. Zero means
// "no color" and maps to the default gray.
func ColorHex(color int) string {
	if color == 0 {
		return defaultRoleColor
	}
	return fmt.Sprintf("#%06x", color)
}

// HasAdminPermission reports whether the member holds the administrator
// bit, either directly or through any of its roles. Bitmasks arrive as
// decimal strings; an unparseable mask counts as no permission.
func HasAdminPermission(permissions string, roles []discord.Role, memberRoles []string) bool {
	if hasAdminBit(permissions) {
		return true
	}
	for _, roleID := range memberRoles {
		for _, role := range roles {
			if role.ID == roleID && hasAdminBit(role.Permissions) {
				return true
			}
		}
	}
	return false
}

func hasAdminBit(permissions string) bool {
	if permissions == "" {
		return false
	}
	mask, err := strconv.ParseUint(permissions, 10, 64)
	if err != nil {
		return false
	}
	return mask&adminPermission == adminPermission
}

// transformRoles drops the implicit @everyone role and orders the rest
// highest position first.
func transformRoles(roles []discord.Role) []Role {
	out := make([]Role, 0, len(roles))
	for _, r := range roles {
		if r.Name == "@everyone" {
			continue
		}
		out = append(out, Role{
			ID:       r.ID,
			Name:     r.Name,
			Color:    ColorHex(r.Color),
			Position: r.Position,
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Position > out[j].Position
	})
	return out
}

// transformCategories keeps category-type channels in ascending
// position order.
func transformCategories(channels []discord.Channel) []Category {
	grouping := make([]discord.Channel, 0)
	for _, ch := range channels {
		if ch.Type == discord.ChannelTypeCategory {
			grouping = append(grouping, ch)
		}
	}
	sort.SliceStable(grouping, func(i, j int) bool {
		return grouping[i].Position < grouping[j].Position
	})
	out := make([]Category, 0, len(grouping))
	for _, ch := range grouping {
		out = append(out, Category{ID: ch.ID, Name: ch.Name, Type: ch.Type})
	}
	return out
}

// transformMembers drops records without identity data and service
// identities, and derives the advisory admin flag once at fetch time.
func transformMembers(members []discord.Member, roles []discord.Role) []Member {
	out := make([]Member, 0, len(members))
	for _, m := range members {
		if m.User == nil || m.User.Bot {
			continue
		}
		discriminator := m.User.Discriminator
		if discriminator == "" {
			discriminator = "0"
		}
		nickname := ""
		if m.Nick != nil {
			nickname = *m.Nick
		}
		out = append(out, Member{
			ID:            m.User.ID,
			Username:      m.User.Username,
			Discriminator: discriminator,
			Avatar:        m.User.Avatar,
			Nickname:      nickname,
			Roles:         m.Roles,
			JoinedAt:      m.JoinedAt,
			IsAdmin:       HasAdminPermission(m.Permissions, roles, m.Roles),
			Status:        statusOffline,
		})
	}
	return out
}
