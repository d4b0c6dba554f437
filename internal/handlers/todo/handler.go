package todo

import (
	"net/http"
	"todoapi/infras/otel"
	"todoapi/internal/domains/todo/model/dto"
	"todoapi/internal/domains/todo/service"
	"todoapi/shared/constant"
	"todoapi/shared/failure"
	"todoapi/shared/validator"
	"todoapi/transport/http/response"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

const routeTodo = "/todo"

type Handler struct {
	service service.Todo
	otel    otel.Otel
}

func New(service service.Todo, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route(routeTodo, func(routerGroup chi.Router) {
		routerGroup.Post("/", handler.CreateTodo)
		routerGroup.Get("/", handler.GetTodos)
		routerGroup.Get("/{id}", handler.GetTodo)
		routerGroup.Post("/{id}", handler.MarkTodoDone)
		routerGroup.Put("/{id}", handler.UpdateTodo)
		routerGroup.Delete("/{id}", handler.DeleteTodo)
	})
}

// CreateTodo handles the creation of a new todo item.
// @Summary Create a new todo
// @Description Create an open task. Id and creation time are assigned by the server.
// @Tags Todo
// @Accept json
// @Produce json
// @Param request body dto.CreateTodoRequest true "Todo details"
// @Success 201 {object} model.ToDoItem "Created todo"
// @Header 201 {string} Location "/todo"
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /todo [post]
func (handler *Handler) CreateTodo(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreateTodo")
	defer scope.End()

	var req dto.CreateTodoRequest
	if err := validator.Validate(request.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request")

		response.WithError(writer, err)

		return
	}

	item, err := handler.service.Create(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to create todo")

		response.WithError(writer, err)

		return
	}

	scope.AddEvent("Todo created successfully")

	response.WithCreated(writer, routeTodo, item)
}

// GetTodos retrieves every todo item.
// @Summary Get all todos
// @Description Retrieve every stored todo. An empty store yields an empty array.
// @Tags Todo
// @Produce json
// @Success 200 {array} model.ToDoItem "List of todos"
// @Failure 500 {object} response.Error
// @Router /todo [get]
func (handler *Handler) GetTodos(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetTodos")
	defer scope.End()

	items, err := handler.service.GetAll(ctx)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get todos")

		response.WithError(writer, err)

		return
	}

	scope.AddEvent("Todos retrieved successfully")

	response.WithJSON(writer, http.StatusOK, items)
}

// GetTodo retrieves a todo item by its ID.
// @Summary Get a todo by ID
// @Tags Todo
// @Produce json
// @Param id path string true "Todo ID"
// @Success 200 {object} model.ToDoItem "Todo details"
// @Failure 404 {object} dto.NotFoundResponse
// @Failure 500 {object} response.Error
// @Router /todo/{id} [get]
func (handler *Handler) GetTodo(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetTodo")
	defer scope.End()

	id := chi.URLParam(request, constant.RequestParamID)

	item, err := handler.service.Get(ctx, id)
	if err != nil {
		scope.TraceError(err)
		handler.fail(writer, id, err, "failed to get todo")

		return
	}

	response.WithJSON(writer, http.StatusOK, item)
}

// MarkTodoDone marks a todo item as completed.
// @Summary Mark a todo as done
// @Description Completed todos are removed by the cleanup job.
// @Tags Todo
// @Param id path string true "Todo ID"
// @Success 204
// @Failure 404 {object} dto.NotFoundResponse
// @Failure 409 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /todo/{id} [post]
func (handler *Handler) MarkTodoDone(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".MarkTodoDone")
	defer scope.End()

	id := chi.URLParam(request, constant.RequestParamID)

	if err := handler.service.MarkDone(ctx, id); err != nil {
		scope.TraceError(err)
		handler.fail(writer, id, err, "failed to mark todo done")

		return
	}

	scope.AddEvent("Todo marked done")

	response.WithNoContent(writer)
}

// UpdateTodo replaces the description of a todo item.
// @Summary Update a todo by ID
// @Description Only the description changes. Id, creation time and completion are kept.
// @Tags Todo
// @Accept json
// @Param id path string true "Todo ID"
// @Param request body dto.UpdateTodoRequest true "New description"
// @Success 204
// @Failure 400 {object} response.Error
// @Failure 404 {object} dto.NotFoundResponse
// @Failure 409 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /todo/{id} [put]
func (handler *Handler) UpdateTodo(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UpdateTodo")
	defer scope.End()

	id := chi.URLParam(request, constant.RequestParamID)

	if err := handler.service.Update(ctx, id, request.Body); err != nil {
		scope.TraceError(err)
		handler.fail(writer, id, err, "failed to update todo")

		return
	}

	scope.AddEvent("Todo updated successfully")

	response.WithNoContent(writer)
}

// DeleteTodo deletes a todo item by its ID.
// @Summary Delete a todo by ID
// @Tags Todo
// @Param id path string true "Todo ID"
// @Success 204
// @Failure 404 {object} dto.NotFoundResponse
// @Failure 409 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /todo/{id} [delete]
func (handler *Handler) DeleteTodo(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".DeleteTodo")
	defer scope.End()

	id := chi.URLParam(request, constant.RequestParamID)

	if err := handler.service.Delete(ctx, id); err != nil {
		scope.TraceError(err)
		handler.fail(writer, id, err, "failed to delete todo")

		return
	}

	scope.AddEvent("Todo deleted successfully")

	response.WithNoContent(writer)
}

// fail answers a missing task with its requested id and everything else with the error.
func (handler *Handler) fail(writer http.ResponseWriter, id string, err error, msg string) {
	if failure.IsNotFound(err) {
		log.Debug().Str("id", id).Msg("todo not found")

		response.WithJSON(writer, http.StatusNotFound, dto.NotFoundResponse{ID: id})

		return
	}

	log.Error().Err(err).Str("id", id).Msg(msg)

	response.WithError(writer, err)
}
