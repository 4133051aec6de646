package api

import (
	"context"
	"fmt"
	"io"
	"net/url"

	"github.com/geokey/geoadmin/internal/models"
)

// GetProject fetches one project definition
func (c *Client) GetProject(ctx context.Context, projectID int) (*models.Project, error) {
	var project models.Project
	if err := c.Get(ctx, fmt.Sprintf("projects/%d", projectID), &project); err != nil {
		return nil, err
	}
	return &project, nil
}

// UpdateProject patches project settings and returns the authoritative state
func (c *Client) UpdateProject(ctx context.Context, projectID int, patch map[string]interface{}) (*models.Project, error) {
	var project models.Project
	if err := c.Put(ctx, fmt.Sprintf("projects/%d", projectID), patch, &project); err != nil {
		return nil, err
	}
	return &project, nil
}

// UpdateProjectStatus toggles a project between active and inactive
func (c *Client) UpdateProjectStatus(ctx context.Context, projectID int, status string) (*models.Project, error) {
	return c.UpdateProject(ctx, projectID, map[string]interface{}{"status": status})
}

// SetProjectPrivate toggles a project between private and public
func (c *Client) SetProjectPrivate(ctx context.Context, projectID int, private bool) (*models.Project, error) {
	return c.UpdateProject(ctx, projectID, map[string]interface{}{"isprivate": private})
}

// GetCategory fetches one category with its field definitions. The filter
// builder uses this to populate the field-select dropdown.
func (c *Client) GetCategory(ctx context.Context, projectID, categoryID int) (*models.Category, error) {
	var category models.Category
	if err := c.Get(ctx, fmt.Sprintf("projects/%d/categories/%d", projectID, categoryID), &category); err != nil {
		return nil, err
	}
	return &category, nil
}

// UpdateCategoryStatus toggles a category between active and inactive
func (c *Client) UpdateCategoryStatus(ctx context.Context, projectID, categoryID int, status string) (*models.Category, error) {
	var category models.Category
	path := fmt.Sprintf("projects/%d/categories/%d", projectID, categoryID)
	if err := c.Put(ctx, path, map[string]interface{}{"status": status}, &category); err != nil {
		return nil, err
	}
	return &category, nil
}

func fieldPath(projectID, categoryID, fieldID int) string {
	return fmt.Sprintf("projects/%d/categories/%d/fields/%d", projectID, categoryID, fieldID)
}

// UpdateFieldStatus toggles a field between active and inactive
func (c *Client) UpdateFieldStatus(ctx context.Context, projectID, categoryID, fieldID int, status string) (*models.Field, error) {
	var field models.Field
	if err := c.Put(ctx, fieldPath(projectID, categoryID, fieldID), map[string]interface{}{"status": status}, &field); err != nil {
		return nil, err
	}
	return &field, nil
}

// AddLookupValue creates a lookup value and returns the field carrying
// the authoritative value collection, which callers render wholesale
// instead of patching their local list
func (c *Client) AddLookupValue(ctx context.Context, projectID, categoryID, fieldID int, name string) (*models.Field, error) {
	var field models.Field
	path := fieldPath(projectID, categoryID, fieldID) + "/lookupvalues"
	if err := c.Post(ctx, path, map[string]string{"name": name}, &field); err != nil {
		return nil, err
	}
	return &field, nil
}

// UpdateLookupValue renames a single lookup value
func (c *Client) UpdateLookupValue(ctx context.Context, projectID, categoryID, fieldID, valueID int, name string) error {
	path := fmt.Sprintf("%s/lookupvalues/%d", fieldPath(projectID, categoryID, fieldID), valueID)
	return c.Patch(ctx, path, map[string]string{"name": name}, nil)
}

// DeleteLookupValue removes a single lookup value
func (c *Client) DeleteLookupValue(ctx context.Context, projectID, categoryID, fieldID, valueID int) error {
	path := fmt.Sprintf("%s/lookupvalues/%d", fieldPath(projectID, categoryID, fieldID), valueID)
	return c.Delete(ctx, path)
}

// UploadLookupSymbol replaces or clears the symbol image of a lookup
// value. file may be nil when clear is set.
func (c *Client) UploadLookupSymbol(ctx context.Context, projectID, categoryID, fieldID, valueID int, filename string, file io.Reader, clear bool) (*models.LookupValue, error) {
	var value models.LookupValue
	path := fmt.Sprintf("%s/lookupvalues/%d", fieldPath(projectID, categoryID, fieldID), valueID)
	fields := map[string]string{"clear_symbol": fmt.Sprintf("%t", clear)}
	if err := c.Upload(ctx, path, fields, "symbol", filename, file, &value); err != nil {
		return nil, err
	}
	return &value, nil
}

// SearchUsers queries registered users by display name for the
// type-ahead member search
func (c *Client) SearchUsers(ctx context.Context, query string) ([]models.User, error) {
	var users []models.User
	if err := c.Get(ctx, "users/?query="+url.QueryEscape(query), &users); err != nil {
		return nil, err
	}
	return users, nil
}

func usergroupPath(projectID, groupID int) string {
	return fmt.Sprintf("projects/%d/usergroups/%d", projectID, groupID)
}

// GetUserGroup fetches one user group with its member list
func (c *Client) GetUserGroup(ctx context.Context, projectID, groupID int) (*models.UserGroup, error) {
	var group models.UserGroup
	if err := c.Get(ctx, usergroupPath(projectID, groupID), &group); err != nil {
		return nil, err
	}
	return &group, nil
}

// AddGroupMember adds a user and returns the group with the
// authoritative member list for a full re-render
func (c *Client) AddGroupMember(ctx context.Context, projectID, groupID, userID int) (*models.UserGroup, error) {
	var group models.UserGroup
	path := usergroupPath(projectID, groupID) + "/users"
	if err := c.Post(ctx, path, map[string]int{"user_id": userID}, &group); err != nil {
		return nil, err
	}
	return &group, nil
}

// RemoveGroupMember removes a single member from the group
func (c *Client) RemoveGroupMember(ctx context.Context, projectID, groupID, userID int) error {
	return c.Delete(ctx, fmt.Sprintf("%s/users/%d", usergroupPath(projectID, groupID), userID))
}

// UpdateGroupFilters submits the serialized filter expression for the
// group. An empty expression grants access to all data.
func (c *Client) UpdateGroupFilters(ctx context.Context, projectID, groupID int, expression string) (*models.UserGroup, error) {
	var group models.UserGroup
	var filters interface{}
	if expression != "" {
		filters = expression
	}
	if err := c.Put(ctx, usergroupPath(projectID, groupID), map[string]interface{}{"filters": filters}, &group); err != nil {
		return nil, err
	}
	return &group, nil
}

// GetApp fetches one registered application
func (c *Client) GetApp(ctx context.Context, appID int) (*models.App, error) {
	var app models.App
	if err := c.Get(ctx, fmt.Sprintf("apps/%d", appID), &app); err != nil {
		return nil, err
	}
	return &app, nil
}

// UpdateAppStatus toggles an application between active and inactive
func (c *Client) UpdateAppStatus(ctx context.Context, appID int, status string) (*models.App, error) {
	var app models.App
	if err := c.Put(ctx, fmt.Sprintf("apps/%d", appID), map[string]interface{}{"status": status}, &app); err != nil {
		return nil, err
	}
	return &app, nil
}
