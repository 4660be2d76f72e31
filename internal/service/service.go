package service

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"gitlab.com/dirk.krummacker/contact-directory/internal/model"
	"gitlab.com/dirk.krummacker/contact-directory/internal/store"
	"gitlab.com/dirk.krummacker/contact-directory/internal/validation"
	"go.uber.org/zap"
)

// TotalCountHeader carries the number of contacts matching the filters of a list request.
const TotalCountHeader = "X-Total-Count"

// allowedOrder are the allowed values for the '_order' URL parameter.
var allowedOrder = []string{"asc", "desc"}

// handler serves the REST API on top of a contact store.
type handler struct {
	contacts store.Store
	logg     *zap.SugaredLogger
	validate *validator.Validate
}

// SetupHttpRouter initializes the REST API router and registers all endpoints. Request logging is
// skipped when requestLogging is false.
func SetupHttpRouter(contacts store.Store, logg *zap.SugaredLogger, requestLogging bool) *gin.Engine {
	h := &handler{
		contacts: contacts,
		logg:     logg,
		validate: validation.New(),
	}
	router := gin.New()
	if requestLogging {
		router.Use(loggingMiddleware(logg))
	} else {
		logg.Info("Turning off HTTP request logging.")
	}
	router.Use(gin.Recovery(), corsMiddleware())
	router.GET("/contacts", h.findContacts)
	router.GET("/contacts/:id", h.findContactByID)
	router.PATCH("/contacts/:id", h.updateContactByID)
	router.OPTIONS("/contacts", preflight)
	router.OPTIONS("/contacts/:id", preflight)
	return router
}

// findContacts responds with a list of contacts as JSON.
//
// The URL parameters '<field>_like' restrict the result to contacts whose field contains the
// given text, ignoring case. Empty values are ignored. Valid fields are 'firstName', 'lastName',
// 'email', 'phone', 'dob', 'address', 'city', 'state' and 'zipCode'.
//
// The URL parameter '_page' selects a 1-based page of '_limit' contacts (10 if '_limit' is
// omitted). Without '_page' and '_limit' all matching contacts are returned. The header
// X-Total-Count always carries the number of matching contacts before paging.
//
// The URL parameter '_sort' names the field to sort by, 'id' if omitted. '_order' is 'asc'
// (default) or 'desc'.
//
// REST API calls:
//
//	> curl -i "http://localhost:4000/contacts"
//	> curl -i "http://localhost:4000/contacts?firstName_like=Ju&_page=2&_limit=10"
//	> curl -i "http://localhost:4000/contacts?city_like=york&_sort=lastName&_order=desc"
func (h *handler) findContacts(c *gin.Context) {
	query, success := parseQuery(c)
	if !success {
		return
	}
	contacts, total, err := h.contacts.Find(c.Request.Context(), query)
	if err != nil {
		h.internalError(c, err)
		return
	}
	c.Header(TotalCountHeader, strconv.Itoa(total))
	c.IndentedJSON(http.StatusOK, contacts)
}

// parseQuery inspects the URL parameters and turns them into a store query.
func parseQuery(c *gin.Context) (query store.Query, success bool) {
	query.Filters = map[string]string{}
	for key, values := range c.Request.URL.Query() {
		field, isFilter := strings.CutSuffix(key, "_like")
		if !isFilter {
			continue
		}
		if !model.IsField(field) {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": "invalid filter parameter " + key})
			return query, false
		}
		if len(values) > 0 {
			query.Filters[field] = values[0]
		}
	}

	if page := c.Query("_page"); page != "" {
		pageAsInt, errConv := strconv.Atoi(page)
		if errConv != nil || pageAsInt < 1 {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": "invalid _page parameter"})
			return query, false
		}
		query.Page = pageAsInt
	}
	if limit := c.Query("_limit"); limit != "" {
		limitAsInt, errConv := strconv.Atoi(limit)
		if errConv != nil || limitAsInt < 1 {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": "invalid _limit parameter"})
			return query, false
		}
		query.Limit = limitAsInt
	}

	query.Sort = c.Query("_sort")
	if _, ok := model.Column(query.Sort); query.Sort != "" && !ok {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": "invalid _sort parameter"})
		return query, false
	}
	order := strings.ToLower(c.DefaultQuery("_order", "asc"))
	if !contains(allowedOrder, order) {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": "invalid _order parameter"})
		return query, false
	}
	query.Descending = order == "desc"
	return query, true
}

// contains returns true if a string is present in a slice.
func contains(slice []string, str string) bool {
	for _, v := range slice {
		if v == str {
			return true
		}
	}
	return false
}

// parseID reads the id URL parameter. Ids that are not numbers cannot exist, so they are answered
// with NOT FOUND.
func parseID(c *gin.Context) (int64, bool) {
	id, errConv := strconv.ParseInt(c.Param("id"), 10, 64)
	if errConv != nil {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"message": "invalid id parameter"})
		return 0, false
	}
	return id, true
}

// findContactByID locates the contact whose ID value matches the id parameter of the request URL,
// then returns that contact as a response.
//
// Example REST API call:
//
//	> curl http://localhost:4000/contacts/56
func (h *handler) findContactByID(c *gin.Context) {
	id, success := parseID(c)
	if !success {
		return
	}
	contact, err := h.contacts.Get(c.Request.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		c.IndentedJSON(http.StatusNotFound, gin.H{"message": "contact not found"})
		return
	}
	if err != nil {
		h.internalError(c, err)
		return
	}
	c.IndentedJSON(http.StatusOK, contact)
}

// updateContactByID updates the contact whose ID value matches the id parameter of the request
// URL, updates the values specified in the JSON (and only those), and finally responds with the
// new version of the contact. An id inside the JSON is ignored.
//
// Example REST API calls:
//
//	> curl http://localhost:4000/contacts/56 --request "PATCH" --include --header "Content-Type: application/json" --data '{"phone": "0123456789"}'
//	> curl http://localhost:4000/contacts/56 --request "PATCH" --include --header "Content-Type: application/json" --data '{"dob": "1972-06-06", "city": "Prague"}'
func (h *handler) updateContactByID(c *gin.Context) {
	id, success := parseID(c)
	if !success {
		return
	}

	var submitted model.Contact
	if errBind := c.ShouldBindJSON(&submitted); errBind != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": "invalid JSON"})
		return
	}

	// It only makes sense to continue if we have at least one value to update.
	if submitted.IsEmpty() {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": "no values to be updated"})
		return
	}
	if errValidate := h.validate.Struct(submitted); errValidate != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": validationMessage(errValidate)})
		return
	}

	updated, err := h.contacts.Update(c.Request.Context(), id, submitted)
	if errors.Is(err, store.ErrNotFound) {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"message": "contact not found"})
		return
	}
	if err != nil {
		h.internalError(c, err)
		return
	}
	c.IndentedJSON(http.StatusOK, updated)
}

// validationMessage names the first field that failed validation.
func validationMessage(err error) string {
	var errs validator.ValidationErrors
	if errors.As(err, &errs) && len(errs) > 0 {
		return "invalid value for " + lowerFirst(errs[0].Field())
	}
	return "invalid values"
}

// lowerFirst turns a struct field name like ZipCode into its JSON name zipCode.
func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}

// internalError logs a store failure and answers with a generic message.
func (h *handler) internalError(c *gin.Context, err error) {
	h.logg.Errorw("request failed", "method", c.Request.Method, "path", c.Request.URL.Path, "error", err)
	c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": "internal error"})
}
