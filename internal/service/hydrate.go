package service

import (
	"operon.app/server/internal/model"
)

// The assembly helpers below stitch flat store reads into the nested entity
// graph the API returns. Stores load each level in one batched query; these
// group the rows by their parent key.

func attachCommentsToTasks(tasks []model.Task, comments []model.Comment) {
	byTask := make(map[int64][]model.Comment)
	for _, c := range comments {
		byTask[c.TaskID] = append(byTask[c.TaskID], c)
	}
	for i := range tasks {
		tasks[i].Comments = byTask[tasks[i].ID]
	}
}

func attachToProjects(projects []model.Project, members []model.ProjectMember, tasks []model.Task) {
	membersByProject := make(map[int64][]model.ProjectMember)
	for _, m := range members {
		membersByProject[m.ProjectID] = append(membersByProject[m.ProjectID], m)
	}
	tasksByProject := make(map[int64][]model.Task)
	for _, t := range tasks {
		tasksByProject[t.ProjectID] = append(tasksByProject[t.ProjectID], t)
	}
	for i := range projects {
		projects[i].Members = membersByProject[projects[i].ID]
		projects[i].Tasks = tasksByProject[projects[i].ID]
	}
}

func attachToWorkspaces(workspaces []model.Workspace, members []model.WorkspaceMember, projects []model.Project, owners []model.User) {
	membersByWorkspace := make(map[string][]model.WorkspaceMember)
	for _, m := range members {
		membersByWorkspace[m.WorkspaceID] = append(membersByWorkspace[m.WorkspaceID], m)
	}
	projectsByWorkspace := make(map[string][]model.Project)
	for _, p := range projects {
		projectsByWorkspace[p.WorkspaceID] = append(projectsByWorkspace[p.WorkspaceID], p)
	}
	ownerByID := make(map[string]model.User)
	for _, u := range owners {
		ownerByID[u.ID] = u
	}
	for i := range workspaces {
		ws := &workspaces[i]
		ws.Members = membersByWorkspace[ws.ID]
		ws.Projects = projectsByWorkspace[ws.ID]
		if owner, ok := ownerByID[ws.OwnerID]; ok {
			o := owner
			ws.Owner = &o
		}
	}
}
