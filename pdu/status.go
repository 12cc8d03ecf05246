package pdu

import "fmt"

type CommandStatus uint32

const (
	StatusOK              CommandStatus = 0x00000000
	StatusInvMsgLen       CommandStatus = 0x00000001
	StatusInvCmdLen       CommandStatus = 0x00000002
	StatusInvCmdID        CommandStatus = 0x00000003
	StatusInvBndSts       CommandStatus = 0x00000004
	StatusAlyBnd          CommandStatus = 0x00000005
	StatusInvPrtFlg       CommandStatus = 0x00000006
	StatusInvRegDlvFlg    CommandStatus = 0x00000007
	StatusSysErr          CommandStatus = 0x00000008
	StatusInvSrcAdr       CommandStatus = 0x0000000A
	StatusInvDstAdr       CommandStatus = 0x0000000B
	StatusInvMsgID        CommandStatus = 0x0000000C
	StatusBindFail        CommandStatus = 0x0000000D
	StatusInvPaswd        CommandStatus = 0x0000000E
	StatusInvSysID        CommandStatus = 0x0000000F
	StatusMsgQFul         CommandStatus = 0x00000014
	StatusInvSerTyp       CommandStatus = 0x00000015
	StatusSubmitFail      CommandStatus = 0x00000045
	StatusThrottled       CommandStatus = 0x00000058
	StatusInvSched        CommandStatus = 0x00000061
	StatusInvExpiry       CommandStatus = 0x00000062
	StatusRxTAppn         CommandStatus = 0x00000064
	StatusRxPAppn         CommandStatus = 0x00000065
	StatusRxRAppn         CommandStatus = 0x00000066
	StatusInvOptParStream CommandStatus = 0x000000C0
	StatusOptParNotAllwd  CommandStatus = 0x000000C1
	StatusInvParLen       CommandStatus = 0x000000C2
	StatusMissingOptParam CommandStatus = 0x000000C3
	StatusInvOptParamVal  CommandStatus = 0x000000C4
	StatusDeliveryFailure CommandStatus = 0x000000FE
	StatusUnknownErr      CommandStatus = 0x000000FF
)

var statusNames = map[CommandStatus]string{
	StatusOK:              "ESME_ROK",
	StatusInvMsgLen:       "ESME_RINVMSGLEN",
	StatusInvCmdLen:       "ESME_RINVCMDLEN",
	StatusInvCmdID:        "ESME_RINVCMDID",
	StatusInvBndSts:       "ESME_RINVBNDSTS",
	StatusAlyBnd:          "ESME_RALYBND",
	StatusInvPrtFlg:       "ESME_RINVPRTFLG",
	StatusInvRegDlvFlg:    "ESME_RINVREGDLVFLG",
	StatusSysErr:          "ESME_RSYSERR",
	StatusInvSrcAdr:       "ESME_RINVSRCADR",
	StatusInvDstAdr:       "ESME_RINVDSTADR",
	StatusInvMsgID:        "ESME_RINVMSGID",
	StatusBindFail:        "ESME_RBINDFAIL",
	StatusInvPaswd:        "ESME_RINVPASWD",
	StatusInvSysID:        "ESME_RINVSYSID",
	StatusMsgQFul:         "ESME_RMSGQFUL",
	StatusInvSerTyp:       "ESME_RINVSERTYP",
	StatusSubmitFail:      "ESME_RSUBMITFAIL",
	StatusThrottled:       "ESME_RTHROTTLED",
	StatusInvSched:        "ESME_RINVSCHED",
	StatusInvExpiry:       "ESME_RINVEXPIRY",
	StatusRxTAppn:         "ESME_RX_T_APPN",
	StatusRxPAppn:         "ESME_RX_P_APPN",
	StatusRxRAppn:         "ESME_RX_R_APPN",
	StatusInvOptParStream: "ESME_RINVOPTPARSTREAM",
	StatusOptParNotAllwd:  "ESME_ROPTPARNOTALLWD",
	StatusInvParLen:       "ESME_RINVPARLEN",
	StatusMissingOptParam: "ESME_RMISSINGOPTPARAM",
	StatusInvOptParamVal:  "ESME_RINVOPTPARAMVAL",
	StatusDeliveryFailure: "ESME_RDELIVERYFAILURE",
	StatusUnknownErr:      "ESME_RUNKNOWNERR",
}

func (s CommandStatus) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return fmt.Sprintf("status(0x%08x)", uint32(s))
}
