package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/hatmapp/hatm/internal/invite"
	"github.com/hatmapp/hatm/internal/models"
	"github.com/hatmapp/hatm/internal/storage"
	"github.com/hatmapp/hatm/pkg/api"
)

// GroupService manages reading circles and their membership.
type GroupService struct {
	store storage.Store
	hatms *HatmService
}

// NewGroupService creates a new GroupService. The HatmService is needed
// because joining a group can claim a reader slot in its current hatm.
func NewGroupService(store storage.Store, hatms *HatmService) *GroupService {
	return &GroupService{store: store, hatms: hatms}
}

// Create makes a new group with a fresh invite code and joins the
// creator to it.
func (s *GroupService) Create(ctx context.Context, user *models.User, name string) (*api.Group, error) {
	code, err := s.uniqueInviteCode(ctx)
	if err != nil {
		return nil, err
	}

	group := &models.Group{
		Name:       name,
		InviteCode: code,
		CreatorID:  user.ID,
	}
	if err := s.store.CreateGroup(ctx, group); err != nil {
		return nil, err
	}
	if err := s.store.AddMember(ctx, &models.Member{GroupID: group.ID, UserID: user.ID}); err != nil {
		return nil, err
	}

	slog.Info("Group created", "group_id", group.ID, "name", name, "creator_id", user.ID)
	return s.summary(ctx, group)
}

// Join adds the user to the group behind an invite code. Joining a
// group the user already belongs to is a no-op that returns the group,
// not an error. A successful join claims a reader slot in the group's
// current hatm if one is free.
func (s *GroupService) Join(ctx context.Context, user *models.User, code string) (*api.Group, error) {
	code = invite.Normalize(code)
	if err := invite.Validate(code); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidInviteCode, err)
	}

	group, err := s.store.GetGroupByInviteCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if group == nil {
		return nil, ErrGroupNotFound
	}

	member, err := s.store.GetMember(ctx, group.ID, user.ID)
	if err != nil {
		return nil, err
	}
	if member == nil {
		if err := s.store.AddMember(ctx, &models.Member{GroupID: group.ID, UserID: user.ID}); err != nil {
			return nil, err
		}
		if err := s.hatms.AssignToNewMember(ctx, group.ID, user.ID); err != nil {
			return nil, err
		}
		slog.Info("Member joined", "group_id", group.ID, "user_id", user.ID)
	}

	return s.summary(ctx, group)
}

// List retrieves every group the user belongs to.
func (s *GroupService) List(ctx context.Context, user *models.User) ([]*api.Group, error) {
	groups, err := s.store.ListGroupsByUser(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	out := make([]*api.Group, len(groups))
	for i, g := range groups {
		summary, err := s.summary(ctx, g)
		if err != nil {
			return nil, err
		}
		out[i] = summary
	}
	return out, nil
}

// Detail retrieves the full group view for one of its members.
func (s *GroupService) Detail(ctx context.Context, groupID, userID string) (*api.GroupDetail, error) {
	group, err := s.store.GetGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if group == nil {
		return nil, ErrGroupNotFound
	}
	if err := requireMember(ctx, s.store, groupID, userID); err != nil {
		return nil, err
	}

	summary, err := s.summary(ctx, group)
	if err != nil {
		return nil, err
	}

	members, err := s.store.ListMembers(ctx, groupID)
	if err != nil {
		return nil, err
	}
	ids := make([]string, len(members))
	for i, m := range members {
		ids[i] = m.UserID
	}
	users, err := s.store.GetUsersByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	detail := &api.GroupDetail{Group: *summary, Members: make([]api.Member, len(members))}
	for i, m := range members {
		wire := api.Member{
			ID:       m.ID,
			UserID:   m.UserID,
			JoinedAt: m.JoinedAt,
		}
		if u := users[m.UserID]; u != nil {
			wire.Username = u.Username
			wire.FirstName = u.FirstName
		}
		detail.Members[i] = wire
	}

	active, err := s.store.GetActiveHatm(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if active != nil {
		detail.ActiveHatm = toAPIHatm(active)
	}

	return detail, nil
}

func (s *GroupService) summary(ctx context.Context, group *models.Group) (*api.Group, error) {
	count, err := s.store.CountMembers(ctx, group.ID)
	if err != nil {
		return nil, err
	}
	active, err := s.store.GetActiveHatm(ctx, group.ID)
	if err != nil {
		return nil, err
	}

	return &api.Group{
		ID:            group.ID,
		Name:          group.Name,
		InviteCode:    group.InviteCode,
		CreatorID:     group.CreatorID,
		CreatedAt:     group.CreatedAt,
		MembersCount:  count,
		HasActiveHatm: active != nil,
	}, nil
}

// uniqueInviteCode draws codes until one is free. With a 36^8 space a
// retry is already unlikely; the cap guards against a broken store.
func (s *GroupService) uniqueInviteCode(ctx context.Context) (string, error) {
	for attempt := 0; attempt < 10; attempt++ {
		code, err := invite.New()
		if err != nil {
			return "", err
		}
		existing, err := s.store.GetGroupByInviteCode(ctx, code)
		if err != nil {
			return "", err
		}
		if existing == nil {
			return code, nil
		}
	}
	return "", fmt.Errorf("failed to find a free invite code")
}
