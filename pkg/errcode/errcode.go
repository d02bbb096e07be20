package errcode

import (
	"github.com/gnames/gn"
)

const (
	UnknownError gn.ErrorCode = iota

	// File System errors
	CreateDirError
	ReadFileError
	WriteFileError

	// Database errors
	DBConnectionError
	DBNotConnectedError
	DBAttachError
	DBDetachError
	DBQueryTablesError
	DBForeignKeysError

	// Schema check errors
	SchemaInspectError
	SchemaTableMissingError
	SchemaMismatchError
	SchemaCreateError

	// Resolver errors
	ResolverQueryError
	ResolverAmbiguousError

	// Change detection errors
	DetectObsoleteError
	DetectCompareError

	// Upgrade errors
	UpgradeBeginError
	UpgradeTableCopyError
	UpgradeRewriteError
	UpgradeIntegrityError
	UpgradeCommitError
	UpgradeRollbackError
	UpgradePhaseError

	// Maintenance errors
	MaintainPruneError
	MaintainVacuumError
	MaintainReorderError

	// Name matching errors
	MatchLayoutError
	MatchReadError
	MatchApplyError
)
