package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/pixelforge/credits/pkg/api"
	"github.com/pixelforge/credits/pkg/authz"
	"github.com/pixelforge/credits/pkg/ledger"
	"github.com/pixelforge/credits/pkg/mapping"
	"github.com/pixelforge/credits/pkg/middleware"
	"github.com/pixelforge/credits/pkg/models"
)

// ApiHandler implements the generated server interface. It holds the
// two engines the API fronts: the credit ledger and the permission graph.
type ApiHandler struct {
	Credits     CreditService
	Permissions PermissionService
}

// NewApiHandler creates a new ApiHandler over the given engines.
func NewApiHandler(credits CreditService, permissions PermissionService) *ApiHandler {
	return &ApiHandler{Credits: credits, Permissions: permissions}
}

// Make sure we conform to the interface
var _ api.ServerInterface = (*ApiHandler)(nil)

// GetBalance returns a user's total balance. Callers may read their own
// balance; reading another user's requires admin.
func (h *ApiHandler) GetBalance(w http.ResponseWriter, r *http.Request, userId string) {
	requester := middleware.UserID(r.Context())
	if err := h.authorizeUserRead(r, requester, userId); err != nil {
		writeAuthError(w, err)
		return
	}

	balance, err := h.Credits.GetBalance(r.Context(), userId)
	if err != nil {
		http.Error(w, fmt.Sprintf("Failed to retrieve balance: %v", err), http.StatusInternalServerError)
		return
	}

	respondJSON(w, http.StatusOK, mapping.ToApiBalance(&models.Balance{UserID: userId, Balance: balance}))
}

// GetBalanceDetail returns a user's balance split by credit class.
func (h *ApiHandler) GetBalanceDetail(w http.ResponseWriter, r *http.Request, userId string) {
	requester := middleware.UserID(r.Context())
	if err := h.authorizeUserRead(r, requester, userId); err != nil {
		writeAuthError(w, err)
		return
	}

	detail, err := h.Credits.GetBalanceDetail(r.Context(), userId)
	if err != nil {
		http.Error(w, fmt.Sprintf("Failed to retrieve balance detail: %v", err), http.StatusInternalServerError)
		return
	}

	respondJSON(w, http.StatusOK, mapping.ToApiBalanceDetail(detail))
}

// GetTransactionHistory returns a page of a user's transactions, newest first.
func (h *ApiHandler) GetTransactionHistory(w http.ResponseWriter, r *http.Request, userId string, params api.GetTransactionHistoryParams) {
	requester := middleware.UserID(r.Context())
	if err := h.authorizeUserRead(r, requester, userId); err != nil {
		writeAuthError(w, err)
		return
	}

	var limit, offset int32
	if params.Limit != nil {
		limit = *params.Limit
	}
	if params.Offset != nil {
		offset = *params.Offset
	}
	var txType *models.TransactionType
	if params.Type != nil {
		t := models.TransactionType(*params.Type)
		txType = &t
	}

	txs, err := h.Credits.GetTransactionHistory(r.Context(), userId, limit, offset, txType)
	if err != nil {
		if ledger.IsValidation(err) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		http.Error(w, fmt.Sprintf("Failed to retrieve transactions: %v", err), http.StatusInternalServerError)
		return
	}

	respondJSON(w, http.StatusOK, mapping.ToApiTransactions(txs))
}

// GrantCredits credits a user's balance. Admin only.
func (h *ApiHandler) GrantCredits(w http.ResponseWriter, r *http.Request) {
	requester := middleware.UserID(r.Context())
	if err := h.Permissions.RequireAdmin(r.Context(), requester); err != nil {
		writeAuthError(w, err)
		return
	}

	var newGrant api.NewGrant
	if err := json.NewDecoder(r.Body).Decode(&newGrant); err != nil {
		http.Error(w, fmt.Sprintf("Invalid request body: %v", err), http.StatusBadRequest)
		return
	}

	newBalance, err := h.Credits.Grant(r.Context(), mapping.ToDomainGrantParams(&newGrant))
	if err != nil {
		if ledger.IsValidation(err) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		http.Error(w, fmt.Sprintf("Failed to grant credits: %v", err), http.StatusInternalServerError)
		return
	}

	respondJSON(w, http.StatusCreated, mapping.ToApiBalance(&models.Balance{UserID: newGrant.UserId, Balance: newBalance}))
}

// SpendCredits debits the caller's balance for a generation or upscale
// against a target resource. The caller must hold editor (or better) on
// the resource the spend is charged against.
func (h *ApiHandler) SpendCredits(w http.ResponseWriter, r *http.Request) {
	requester := middleware.UserID(r.Context())

	var newSpend api.NewSpend
	if err := json.NewDecoder(r.Body).Decode(&newSpend); err != nil {
		http.Error(w, fmt.Sprintf("Invalid request body: %v", err), http.StatusBadRequest)
		return
	}

	if err := h.Permissions.RequireRelation(r.Context(), requester, newSpend.Namespace, newSpend.ObjectId, models.RelationEditor); err != nil {
		writeAuthError(w, err)
		return
	}

	result, err := h.Credits.Spend(r.Context(), mapping.ToDomainSpendParams(requester, &newSpend))
	if err != nil {
		writeSpendError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, mapping.ToApiSpendResult(result))
}

// SpendCreditsAtomic debits the caller's balance in a single conditional
// write, reporting failure in the response body instead of an error status.
func (h *ApiHandler) SpendCreditsAtomic(w http.ResponseWriter, r *http.Request) {
	requester := middleware.UserID(r.Context())
	if requester == "" {
		writeAuthError(w, authz.ErrUnauthorized)
		return
	}

	var newSpend api.NewAtomicSpend
	if err := json.NewDecoder(r.Body).Decode(&newSpend); err != nil {
		http.Error(w, fmt.Sprintf("Invalid request body: %v", err), http.StatusBadRequest)
		return
	}

	var description string
	if newSpend.Description != nil {
		description = *newSpend.Description
	}
	var metadata map[string]string
	if newSpend.Metadata != nil {
		metadata = *newSpend.Metadata
	}

	outcome, err := h.Credits.SpendAtomic(r.Context(), requester, newSpend.Amount, models.TransactionType(newSpend.Type), description, metadata)
	if err != nil {
		if ledger.IsValidation(err) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		http.Error(w, fmt.Sprintf("Failed to spend credits: %v", err), http.StatusInternalServerError)
		return
	}

	respondJSON(w, http.StatusOK, mapping.ToApiSpendOutcome(outcome))
}

// GrantPermission adds a relation tuple. The engine verifies the caller
// may administer the target object.
func (h *ApiHandler) GrantPermission(w http.ResponseWriter, r *http.Request) {
	requester := middleware.UserID(r.Context())
	if requester == "" {
		writeAuthError(w, authz.ErrUnauthorized)
		return
	}

	var change api.PermissionChange
	if err := json.NewDecoder(r.Body).Decode(&change); err != nil {
		http.Error(w, fmt.Sprintf("Invalid request body: %v", err), http.StatusBadRequest)
		return
	}
	if msg := validateChange(&change); msg != "" {
		http.Error(w, msg, http.StatusBadRequest)
		return
	}

	err := h.Permissions.Grant(r.Context(), change.Namespace, change.ObjectId, models.Relation(change.Relation), change.SubjectId, requester)
	if err != nil {
		writeAuthError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// RevokePermission removes a relation tuple. The engine verifies the
// caller may administer the target object and rejects owners revoking
// their own ownership.
func (h *ApiHandler) RevokePermission(w http.ResponseWriter, r *http.Request) {
	requester := middleware.UserID(r.Context())
	if requester == "" {
		writeAuthError(w, authz.ErrUnauthorized)
		return
	}

	var change api.PermissionChange
	if err := json.NewDecoder(r.Body).Decode(&change); err != nil {
		http.Error(w, fmt.Sprintf("Invalid request body: %v", err), http.StatusBadRequest)
		return
	}
	if msg := validateChange(&change); msg != "" {
		http.Error(w, msg, http.StatusBadRequest)
		return
	}

	err := h.Permissions.Revoke(r.Context(), change.Namespace, change.ObjectId, models.Relation(change.Relation), change.SubjectId, requester)
	if err != nil {
		writeAuthError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// CheckPermission answers whether the caller holds the given relation on
// an object. A denial is a 200 with allowed=false, not an error.
func (h *ApiHandler) CheckPermission(w http.ResponseWriter, r *http.Request) {
	requester := middleware.UserID(r.Context())

	var check api.PermissionCheck
	if err := json.NewDecoder(r.Body).Decode(&check); err != nil {
		http.Error(w, fmt.Sprintf("Invalid request body: %v", err), http.StatusBadRequest)
		return
	}

	allowed, err := h.Permissions.Check(r.Context(), requester, check.Namespace, check.ObjectId, models.Relation(check.Relation))
	if err != nil {
		http.Error(w, fmt.Sprintf("Failed to check permission: %v", err), http.StatusInternalServerError)
		return
	}

	respondJSON(w, http.StatusOK, api.PermissionDecision{Allowed: allowed})
}

// ListAccessibleResources returns the object ids in a namespace the
// caller can reach with at least the given relation.
func (h *ApiHandler) ListAccessibleResources(w http.ResponseWriter, r *http.Request, params api.ListAccessibleResourcesParams) {
	requester := middleware.UserID(r.Context())
	if requester == "" {
		writeAuthError(w, authz.ErrUnauthorized)
		return
	}

	objectIDs, err := h.Permissions.ListAccessible(r.Context(), requester, params.Namespace, models.Relation(params.Relation))
	if err != nil {
		http.Error(w, fmt.Sprintf("Failed to list resources: %v", err), http.StatusInternalServerError)
		return
	}

	respondJSON(w, http.StatusOK, objectIDs)
}

// authorizeUserRead allows a user to read their own records and admins
// to read anyone's.
func (h *ApiHandler) authorizeUserRead(r *http.Request, requester, userID string) error {
	if requester == "" {
		return authz.ErrUnauthorized
	}
	if requester == userID {
		return nil
	}
	admin, err := h.Permissions.IsAdmin(r.Context(), requester)
	if err != nil {
		return err
	}
	if !admin {
		return authz.ErrForbidden
	}
	return nil
}

func respondJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		http.Error(w, fmt.Sprintf("Failed to write response: %v", err), http.StatusInternalServerError)
	}
}

func writeAuthError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, authz.ErrUnauthorized):
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
	case errors.Is(err, authz.ErrForbidden):
		http.Error(w, "Forbidden", http.StatusForbidden)
	default:
		http.Error(w, fmt.Sprintf("Authorization check failed: %v", err), http.StatusInternalServerError)
	}
}

func validateChange(change *api.PermissionChange) string {
	if change.Namespace == "" || change.ObjectId == "" {
		return "namespace and object_id must not be empty"
	}
	if change.SubjectId == "" {
		return "subject_id must not be empty"
	}
	switch change.Relation {
	case api.PermissionChangeRelationOwner, api.PermissionChangeRelationAdmin,
		api.PermissionChangeRelationEditor, api.PermissionChangeRelationViewer:
		return ""
	default:
		return fmt.Sprintf("unknown relation %q", change.Relation)
	}
}

func writeSpendError(w http.ResponseWriter, err error) {
	switch {
	case ledger.IsValidation(err):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case ledger.IsInsufficientCredits(err):
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
	default:
		http.Error(w, fmt.Sprintf("Failed to spend credits: %v", err), http.StatusInternalServerError)
	}
}
