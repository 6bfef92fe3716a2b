package dynamodb

import (
	"fmt"

	"github.com/pixelforge/credits/pkg/models"
)

const (
	// userCreatedIndex orders a user's transactions by creation time; it
	// serves both newest-first history pages and oldest-first FIFO scans.
	userCreatedIndex = "user_id-created_at-index"

	// expiringGrantsIndex collects free grants that still have remaining
	// credit. Rows leave the index when their gsi1pk attribute is removed,
	// in the same write that zeroes the remaining amount: the sweep's
	// expiry transaction, or a spend whose decrement drains the grant.
	expiringGrantsIndex = "gsi1pk-expires_at-index"

	// openGrantPartition is the single partition value of the expiring
	// grants index. The row count there is bounded by active free grants,
	// not by ledger history, so one partition is acceptable.
	openGrantPartition = "OPEN_GRANT"

	subjectIndex = "subject_key-index"
)

// transactionRecord decorates a Transaction with the expiring-grants index
// key. Only open free grants carry it.
type transactionRecord struct {
	models.Transaction
	GSI1PK string `dynamodbav:"gsi1pk,omitempty"`
}

func newTransactionRecord(tx *models.Transaction) transactionRecord {
	rec := transactionRecord{Transaction: *tx}
	if tx.Type.IsFreeGrant() && tx.Remaining() > 0 && tx.ExpiresAt != nil {
		rec.GSI1PK = openGrantPartition
	}
	return rec
}

// relationRecord decorates a RelationTuple with its composite table keys:
// object_key/edge_key form the primary key (upsert by natural key), and
// subject_key feeds the subject-side GSI.
type relationRecord struct {
	models.RelationTuple
	ObjectKey  string `dynamodbav:"object_key"`
	EdgeKey    string `dynamodbav:"edge_key"`
	SubjectKey string `dynamodbav:"subject_key"`
}

func objectKey(namespace, objectID string) string {
	return fmt.Sprintf("%s#%s", namespace, objectID)
}

func edgeKey(relation models.Relation, subjectType, subjectID string) string {
	return fmt.Sprintf("%s#%s#%s", relation, subjectType, subjectID)
}

func subjectKey(namespace, subjectType, subjectID string) string {
	return fmt.Sprintf("%s#%s#%s", namespace, subjectType, subjectID)
}

func newRelationRecord(tuple *models.RelationTuple) relationRecord {
	return relationRecord{
		RelationTuple: *tuple,
		ObjectKey:     objectKey(tuple.Namespace, tuple.ObjectID),
		EdgeKey:       edgeKey(tuple.Relation, tuple.SubjectType, tuple.SubjectID),
		SubjectKey:    subjectKey(tuple.Namespace, tuple.SubjectType, tuple.SubjectID),
	}
}
